// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

// SourceCodeProvider returns the text of the source unit with the given id.
// The unit being parsed is always requested with id 0.
type SourceCodeProvider func(id int) (string, error)

// SourceIDProvider maps an include name to a stable source unit id.
// Equal names must always yield equal ids.
type SourceIDProvider func(name string) (int, error)

// ShaderCode is the parsed form of one source unit.
type ShaderCode struct {
	// Version is nil when the unit has no #version directive.
	Version *VersionDirective

	// Code is the unit's text with comments, alias annotations and
	// include directives removed.
	Code string

	// Inputs and Uniforms list declared fields in source order.
	Inputs   []FieldInfo
	Uniforms []FieldInfo

	// IncludeMarkers is sorted by Offset and holds each SourceID once.
	IncludeMarkers []IncludeMarker
}

// VersionDirective is the value of a #version directive and the byte
// offset of its numeric literal inside ShaderCode.Code.
type VersionDirective struct {
	Value    int
	Position int
}

// IncludeMarker marks where the unit SourceID belongs in ShaderCode.Code.
type IncludeMarker struct {
	SourceID int
	Offset   int
}

// FieldKind distinguishes vertex inputs from uniforms.
type FieldKind uint8

const (
	FieldInput FieldKind = iota
	FieldUniform
)

// String returns the GLSL storage qualifier for the kind.
func (k FieldKind) String() string {
	if k == FieldUniform {
		return "uniform"
	}
	return "in"
}

// FieldInfo is one declared input or uniform.
type FieldInfo struct {
	Location *uint32 // nil without layout(location=N)
	Name     string
	Alias    string // empty without an [ALIAS] annotation
	TypeName string
}

// Field returns the input or uniform named name, or nil.
func (c *ShaderCode) Field(kind FieldKind, name string) *FieldInfo {
	fields := c.Inputs
	if kind == FieldUniform {
		fields = c.Uniforms
	}
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}
