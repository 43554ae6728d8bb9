package encode

import (
	"io"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
)

// CUE encodes documents as CUE, so they can be unified with a schema on
// the consuming side.
type CUE struct{}

var _ Encoder = CUE{}

func (CUE) Ext() string {
	return ".cue"
}

func (CUE) Encode(w io.Writer, doc *Document) error {
	value := cuecontext.New().Encode(doc)
	if err := value.Err(); err != nil {
		return err
	}
	src, err := format.Node(value.Syntax())
	if err != nil {
		return err
	}
	if _, err := w.Write(src); err != nil {
		return err
	}
	return nil
}
