package encode

import (
	"io"

	"go.yaml.in/yaml/v3"
)

// YAML encodes documents as YAML.
type YAML struct{}

var _ Encoder = YAML{}

func (YAML) Ext() string {
	return ".yaml"
}

func (YAML) Encode(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
