// Package sources assigns stable ids to shader source units stored in a
// file system and supplies them to the parser.
package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/gogpu/glslcode/glslsrc"
)

// ErrNotFound is returned when an include name matches no file.
var ErrNotFound = errors.New("source not found")

// Registry maps unit paths to ids. Id 0 is reserved for the unit being
// parsed, so registered ids start at 1. It is safe for concurrent use.
type Registry struct {
	fsys fs.FS

	mu    sync.Mutex
	ids   map[string]int
	paths []string
}

// NewRegistry returns an empty registry reading units from fsys.
func NewRegistry(fsys fs.FS) *Registry {
	return &Registry{
		fsys: fsys,
		ids:  make(map[string]int),
	}
}

// ID returns the id of the unit at p, assigning one on first use.
func (r *Registry) ID(p string) int {
	p = path.Clean(p)
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[p]; ok {
		return id
	}
	r.paths = append(r.paths, p)
	id := len(r.paths)
	r.ids[p] = id
	return id
}

// Path returns the path registered for id.
func (r *Registry) Path(id int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id < 1 || id > len(r.paths) {
		return "", false
	}
	return r.paths[id-1], true
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths)
}

// Resolve finds the file an include name refers to. Names are looked up
// relative to the including unit first and then from the root.
func (r *Registry) Resolve(unit, name string) (string, error) {
	candidates := []string{
		path.Join(path.Dir(unit), name),
		path.Clean(name),
	}
	for _, candidate := range candidates {
		if !fs.ValidPath(candidate) {
			continue
		}
		info, err := fs.Stat(r.fsys, candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("include %q from %s: %w", name, unit, ErrNotFound)
}

// Source reads the text of a registered unit.
func (r *Registry) Source(id int) (string, error) {
	p, ok := r.Path(id)
	if !ok {
		return "", fmt.Errorf("source id %d: %w", id, ErrNotFound)
	}
	content, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Providers returns the parser callbacks for the unit at p.
func (r *Registry) Providers(p string) (glslsrc.SourceCodeProvider, glslsrc.SourceIDProvider) {
	p = path.Clean(p)
	code := func(id int) (string, error) {
		if id == 0 {
			content, err := fs.ReadFile(r.fsys, p)
			if err != nil {
				return "", err
			}
			return string(content), nil
		}
		return r.Source(id)
	}
	ids := func(name string) (int, error) {
		resolved, err := r.Resolve(p, name)
		if err != nil {
			return 0, err
		}
		return r.ID(resolved), nil
	}
	return code, ids
}
