// Package encode writes parsed shaders in persisted formats.
package encode

import (
	"fmt"
	"io"
	"sort"

	"github.com/gogpu/glslcode/glslsrc"
	"github.com/gogpu/glslcode/layout"
)

// Encoder writes one document.
type Encoder interface {
	Encode(w io.Writer, doc *Document) error
	// Ext is the file extension of the output, with the leading dot.
	Ext() string
}

var encoders = map[string]Encoder{
	"yaml": YAML{},
	"cue":  CUE{},
}

// ByName returns the encoder for format.
func ByName(format string) (Encoder, error) {
	if enc, ok := encoders[format]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats())
}

// Formats lists the known format names.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document is the persisted form of a ShaderCode.
type Document struct {
	Version         *int      `json:"version,omitempty" yaml:"version,omitempty"`
	VersionPosition *int      `json:"version_position,omitempty" yaml:"version_position,omitempty"`
	Inputs          []Field   `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Uniforms        []Field   `json:"uniforms,omitempty" yaml:"uniforms,omitempty"`
	Includes        []Include `json:"includes,omitempty" yaml:"includes,omitempty"`
	Code            string    `json:"code" yaml:"code"`
}

// Field is one cataloged declaration with its decomposed type.
type Field struct {
	Location *uint32 `json:"location,omitempty" yaml:"location,omitempty"`
	Name     string  `json:"name" yaml:"name"`
	Alias    string  `json:"alias,omitempty" yaml:"alias,omitempty"`
	Type     string  `json:"type" yaml:"type"`
	Element  string  `json:"element" yaml:"element"`
	Count    int     `json:"count" yaml:"count"`
}

// Include is one include marker, naming the unit by path.
type Include struct {
	Source string `json:"source" yaml:"source"`
	Offset int    `json:"offset" yaml:"offset"`
}

// NewDocument converts code. name maps include source ids to the names
// a loader will look them up by.
func NewDocument(code *glslsrc.ShaderCode, name func(id int) string) *Document {
	doc := &Document{
		Inputs:   newFields(code.Inputs),
		Uniforms: newFields(code.Uniforms),
		Code:     code.Code,
	}
	if v := code.Version; v != nil {
		value, pos := v.Value, v.Position
		doc.Version = &value
		doc.VersionPosition = &pos
	}
	for _, m := range code.IncludeMarkers {
		doc.Includes = append(doc.Includes, Include{
			Source: name(m.SourceID),
			Offset: m.Offset,
		})
	}
	return doc
}

func newFields(infos []glslsrc.FieldInfo) []Field {
	var fields []Field
	for _, f := range layout.Fields(infos) {
		fields = append(fields, Field{
			Location: f.Location,
			Name:     f.Name,
			Alias:    f.Alias,
			Type:     f.TypeName,
			Element:  f.Type.Kind.String(),
			Count:    f.Type.Count,
		})
	}
	return fields
}
