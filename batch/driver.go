package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"

	"github.com/gogpu/glslcode"
	"github.com/gogpu/glslcode/aliases"
	"github.com/gogpu/glslcode/encode"
	"github.com/gogpu/glslcode/glslsrc"
	"github.com/gogpu/glslcode/internal/syncs"
	"github.com/gogpu/glslcode/linker"
	"github.com/gogpu/glslcode/logs"
	"github.com/gogpu/glslcode/sources"
)

// Driver runs batch compilations.
type Driver struct {
	Config Config
	Logger logs.Logger
}

// Result is one compiled unit.
type Result struct {
	Path    string
	ID      int
	Include bool // matched an include-only extension
	Code    *glslsrc.ShaderCode
}

type unit struct {
	path    string
	id      int
	include bool
}

type compiler struct {
	*Driver
	fsys     fs.FS
	registry *sources.Registry
	encoder  encode.Encoder
	rules    *aliases.Rules
}

// Run compiles every matching file of fsys. Units are independent: a unit
// that fails is logged and skipped, and the returned error joins all
// failures. Results of the units that succeeded are returned either way,
// sorted by path.
func (d *Driver) Run(ctx context.Context, fsys fs.FS) ([]Result, error) {
	if err := d.Config.Validate(); err != nil {
		return nil, err
	}
	encoder, err := encode.ByName(d.Config.Format)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		Driver:   d,
		fsys:     fsys,
		registry: sources.NewRegistry(fsys),
		encoder:  encoder,
	}
	if d.Config.AliasScript != "" {
		c.rules, err = aliases.Load(d.Config.AliasScript, nil)
		if err != nil {
			return nil, err
		}
	}

	units, err := d.collect(fsys)
	if err != nil {
		return nil, err
	}
	for i := range units {
		units[i].id = c.registry.ID(units[i].path)
	}

	results := make([]*Result, len(units))
	errs := make([]error, len(units))
	sem := syncs.NewSemaphore(d.Config.Concurrency)
	var wg sync.WaitGroup
	for i, u := range units {
		if ctx.Err() != nil {
			break
		}
		sem.Acquire()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()
			results[i], errs[i] = c.compile(u)
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var compiled []Result
	failed := 0
	for i, res := range results {
		if errs[i] != nil {
			failed++
			d.Logger.Error("parse failed",
				"path", units[i].path,
				"error", errs[i],
			)
			continue
		}
		if res != nil {
			compiled = append(compiled, *res)
		}
	}

	if d.Config.Link {
		errs = append(errs, c.link(compiled)...)
	}

	d.Logger.Info("batch done",
		"units", len(units),
		"compiled", len(compiled),
		"failed", failed,
	)

	return compiled, errors.Join(errs...)
}

// collect lists candidate units in lexical order.
func (d *Driver) collect(fsys fs.FS) ([]unit, error) {
	var units []unit
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := entry.Name()
		if p != "." && strings.HasPrefix(name, ".") {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := path.Ext(name)
		include := slices.Contains(d.Config.IncludeExtensions, ext)
		if !include && !slices.Contains(d.Config.Extensions, ext) {
			return nil
		}
		units = append(units, unit{
			path:    p,
			include: include,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return units, nil
}

// compile parses one unit and writes its encoded form. It returns a nil
// result for files that are not text.
func (c *compiler) compile(u unit) (*Result, error) {
	content, err := fs.ReadFile(c.fsys, u.path)
	if err != nil {
		return nil, err
	}
	if !isText(content) {
		c.Logger.Debug("skip non-text file", "path", u.path)
		return nil, nil
	}

	source, ids := c.registry.Providers(u.path)
	code, err := glslsrc.ParseShaderWithOptions(func(id int) (string, error) {
		if id == 0 {
			return string(content), nil
		}
		return source(id)
	}, ids, glslsrc.Options{
		Name: u.path,
	})
	if err != nil {
		return nil, err
	}

	if c.rules != nil {
		if err := c.rules.Apply(code); err != nil {
			return nil, fmt.Errorf("%s: %w", u.path, err)
		}
	}

	if c.Config.Out != "" {
		doc := glslcode.NewDocument(c.registry, code)
		if err := c.write(u.path+c.encoder.Ext(), func(f *os.File) error {
			return c.encoder.Encode(f, doc)
		}); err != nil {
			return nil, err
		}
	}

	c.Logger.Info("parsed",
		"path", u.path,
		"inputs", len(code.Inputs),
		"uniforms", len(code.Uniforms),
		"includes", len(code.IncludeMarkers),
	)

	return &Result{
		Path:    u.path,
		ID:      u.id,
		Include: u.include,
		Code:    code,
	}, nil
}

// link splices includes into every non-include unit.
func (c *compiler) link(compiled []Result) []error {
	byID := make(map[int]*glslsrc.ShaderCode, len(compiled))
	for _, res := range compiled {
		byID[res.ID] = res.Code
	}
	lib := func(id int) (*glslsrc.ShaderCode, error) {
		if code, ok := byID[id]; ok {
			return code, nil
		}
		// Included with an extension that is not compiled on its own.
		p, ok := c.registry.Path(id)
		if !ok {
			return nil, fmt.Errorf("source id %d: %w", id, sources.ErrNotFound)
		}
		code, err := glslcode.Parse(c.registry, p)
		if err != nil {
			return nil, err
		}
		byID[id] = code
		return code, nil
	}

	var errs []error
	for _, res := range compiled {
		if res.Include {
			continue
		}
		program, err := linker.LinkUnit(res.ID, lib)
		if err != nil {
			c.Logger.Error("link failed", "path", res.Path, "error", err)
			errs = append(errs, fmt.Errorf("link %s: %w", res.Path, err))
			continue
		}
		if c.Config.Out == "" {
			continue
		}
		ext := path.Ext(res.Path)
		target := strings.TrimSuffix(res.Path, ext) + ".linked" + ext
		if err := c.write(target, func(f *os.File) error {
			_, err := f.WriteString(program)
			return err
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// write creates the file rel under the output directory.
func (c *compiler) write(rel string, fn func(*os.File) error) (err error) {
	target := filepath.Join(c.Config.Out, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(f)
}

func isText(content []byte) bool {
	for t := mimetype.Detect(content); t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}
