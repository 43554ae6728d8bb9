// Package configs loads CUE configuration files.
package configs

import (
	"fmt"
	"iter"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Loader reads a list of CUE files in order. Files listed earlier take
// precedence over later ones.
type Loader struct {
	files func() ([]file, error)
}

type file struct {
	path  string
	value cue.Value
}

// NewLoader returns a loader over paths. Every file is unified with the
// closed schema, if given. Files are read on first use.
func NewLoader(paths []string, schema string) Loader {
	return Loader{
		files: sync.OnceValues(func() ([]file, error) {
			return load(paths, schema)
		}),
	}
}

func load(paths []string, schemaSrc string) ([]file, error) {
	var schema cue.Value
	if schemaSrc != "" {
		schema = cuecontext.New().CompileString("close({" + schemaSrc + "})")
		if err := schema.Err(); err != nil {
			return nil, fmt.Errorf("config schema: %w", err)
		}
	}

	files := make([]file, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		value := cuecontext.New().CompileBytes(content, cue.Filename(path))
		if err := value.Err(); err != nil {
			return nil, err
		}
		if schema.Exists() {
			if err := schema.Unify(value).Validate(); err != nil {
				return nil, err
			}
		}
		files = append(files, file{
			path:  path,
			value: value,
		})
	}
	return files, nil
}

// Err returns the error of reading or validating the files, if any.
func (l Loader) Err() error {
	_, err := l.files()
	return err
}

// IterCueValues yields the value at path of every file defining it, in
// file order.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		files, err := l.files()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, f := range files {
			value := f.value.LookupPath(cuePath)
			if value.Err() != nil || !value.Exists() {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}
