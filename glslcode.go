// Package glslcode extracts the interface of GLSL shader sources.
//
// glslcode reads a shader unit and reports its vertex inputs, uniforms,
// #version directive and #include sites, with comments and annotations
// stripped from the program text. The result can be persisted as:
//   - YAML documents
//   - CUE documents
//   - linked program text with includes spliced in
//
// The package provides a simple, high-level API over a file system as well
// as lower-level access to individual stages.
//
// Example usage:
//
//	doc, err := glslcode.Compile(os.DirFS("shaders"), "mesh.vsh")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For the parser alone, use the glslsrc package:
//
//	code, err := glslsrc.Parse(source, ids)
package glslcode

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/gogpu/glslcode/aliases"
	"github.com/gogpu/glslcode/encode"
	"github.com/gogpu/glslcode/glslsrc"
	"github.com/gogpu/glslcode/linker"
	"github.com/gogpu/glslcode/sources"
)

// CompileOptions configures a compilation.
type CompileOptions struct {
	// Format is the document encoding (default: yaml)
	Format string

	// Rules assign aliases to fields declared without one.
	Rules *aliases.Rules
}

// DefaultOptions returns sensible default options.
func DefaultOptions() CompileOptions {
	return CompileOptions{
		Format: "yaml",
	}
}

// Compile parses the unit at path of fsys and returns its YAML document.
func Compile(fsys fs.FS, path string) ([]byte, error) {
	return CompileWithOptions(fsys, path, DefaultOptions())
}

// CompileWithOptions parses the unit at path and encodes it.
//
// The compilation pipeline is:
//  1. Parse the unit, resolving includes against fsys
//  2. Apply alias rules (if any)
//  3. Encode the document
func CompileWithOptions(fsys fs.FS, path string, opts CompileOptions) ([]byte, error) {
	encoder, err := encode.ByName(opts.Format)
	if err != nil {
		return nil, err
	}

	registry := sources.NewRegistry(fsys)
	code, err := Parse(registry, path)
	if err != nil {
		return nil, err
	}

	if opts.Rules != nil {
		if err := opts.Rules.Apply(code); err != nil {
			return nil, fmt.Errorf("alias error: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := encoder.Encode(&buf, NewDocument(registry, code)); err != nil {
		return nil, fmt.Errorf("encode error: %w", err)
	}
	return buf.Bytes(), nil
}

// LinkFile parses the unit at path and returns its linked program text.
func LinkFile(fsys fs.FS, path string) (string, error) {
	registry := sources.NewRegistry(fsys)
	return linker.LinkUnit(registry.ID(path), library(registry))
}

// Parse parses the unit at path, registering it and its includes.
func Parse(registry *sources.Registry, path string) (*glslsrc.ShaderCode, error) {
	registry.ID(path)
	code, ids := registry.Providers(path)
	return glslsrc.ParseShaderWithOptions(code, ids, glslsrc.Options{
		Name: path,
	})
}

// Link returns the program text of code with every include spliced in.
// Included units are parsed on demand.
func Link(registry *sources.Registry, code *glslsrc.ShaderCode) (string, error) {
	return linker.Link(code, library(registry))
}

func library(registry *sources.Registry) linker.Library {
	return func(id int) (*glslsrc.ShaderCode, error) {
		path, ok := registry.Path(id)
		if !ok {
			return nil, fmt.Errorf("source id %d: %w", id, sources.ErrNotFound)
		}
		return Parse(registry, path)
	}
}

// NewDocument converts code, naming includes by their registered paths.
func NewDocument(registry *sources.Registry, code *glslsrc.ShaderCode) *encode.Document {
	return encode.NewDocument(code, func(id int) string {
		path, _ := registry.Path(id)
		return path
	})
}
