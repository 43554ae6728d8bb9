// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import (
	"fmt"
	"strings"
)

// DefaultName identifies a unit whose caller gave it no name.
const DefaultName = "unit 0"

// Options configures parsing.
type Options struct {
	// Name identifies the source unit in error messages (usually a path).
	// Empty means DefaultName.
	Name string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Name: DefaultName,
	}
}

// Parse parses source as the unit being compiled.
//
// This is the simplest entry point. Use ParseShader when the source text
// itself comes from a provider.
func Parse(source string, ids SourceIDProvider) (*ShaderCode, error) {
	return ParseWithOptions(source, ids, DefaultOptions())
}

// ParseWithOptions parses source with custom options.
func ParseWithOptions(source string, ids SourceIDProvider, opts Options) (*ShaderCode, error) {
	return ParseShaderWithOptions(func(int) (string, error) {
		return source, nil
	}, ids, opts)
}

// ParseShader parses source unit 0 as supplied by code.
func ParseShader(code SourceCodeProvider, ids SourceIDProvider) (*ShaderCode, error) {
	return ParseShaderWithOptions(code, ids, DefaultOptions())
}

// ParseShaderWithOptions parses source unit 0 as supplied by code.
//
// The pipeline is:
//  1. Tokenize the unit
//  2. Scan it, collecting comments, includes, the version literal and fields
//  3. Re-walk the tokens once to assemble the output text
//
// The result is either complete or nil with an error; structural failures
// are returned as *SourceError.
func ParseShaderWithOptions(code SourceCodeProvider, ids SourceIDProvider, opts Options) (*ShaderCode, error) {
	source, err := code(0)
	if err != nil {
		return nil, fmt.Errorf("read source unit: %w", err)
	}

	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	sc := newScanner(name, source)
	end, err := sc.scan(TokenSourceRef{}, sc.topLevel)
	if err != nil {
		return nil, err
	}
	if !sc.atEnd(end) {
		return nil, sc.errorAt(ErrUnmatchedBlockClose, end, sc.skipToken(end))
	}

	return sc.assemble(ids)
}

// assemble copies the source into the output text, replacing each skip
// range with a single space and dropping include directives. Output
// positions of includes and the version literal are recorded on the way.
func (sc *scanner) assemble(ids SourceIDProvider) (*ShaderCode, error) {
	var out strings.Builder
	out.Grow(len(sc.source))

	result := &ShaderCode{
		Inputs:   sc.out.inputs,
		Uniforms: sc.out.uniforms,
	}
	skips := sc.out.skips
	includes := sc.out.includes
	version := sc.out.version
	seen := make(map[int]bool, len(includes))

	at := TokenSourceRef{}
	for !sc.atEnd(at) {
		if len(skips) > 0 && skips[0].Start.Offset == at.Offset {
			out.WriteByte(' ')
			at = skips[0].End
			skips = skips[1:]
			continue
		}

		if len(includes) > 0 && includes[0].Range.Start.Offset == at.Offset {
			inc := includes[0]
			id, err := ids(inc.Name)
			if err != nil {
				return nil, fmt.Errorf("resolve include %q: %w", inc.Name, err)
			}
			if !seen[id] {
				seen[id] = true
				result.IncludeMarkers = append(result.IncludeMarkers, IncludeMarker{
					SourceID: id,
					Offset:   out.Len(),
				})
			}
			at = inc.Range.End
			includes = includes[1:]
			continue
		}

		if version != nil && version.At.Offset == at.Offset {
			result.Version = &VersionDirective{
				Value:    version.Value,
				Position: out.Len(),
			}
			version = nil
		}

		// Copy up to the end of the token or the next range, whichever is first.
		stop := at.Offset - at.Inner + sc.tokens[at.Index].Size
		if len(skips) > 0 && skips[0].Start.Offset < stop {
			stop = skips[0].Start.Offset
		}
		if len(includes) > 0 && includes[0].Range.Start.Offset < stop {
			stop = includes[0].Range.Start.Offset
		}
		if version != nil && version.At.Offset > at.Offset && version.At.Offset < stop {
			stop = version.At.Offset
		}
		out.WriteString(sc.source[at.Offset:stop])
		at = sc.advanceTo(at, stop)
	}

	result.Code = out.String()
	return result, nil
}
