package logs

import (
	"io"
	"os"
)

// Writer receives text log records.
type Writer io.Writer

// Writer defaults to stderr.
func (Module) Writer() Writer {
	return os.Stderr
}
