// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package layout decomposes GLSL type names into element types and
// component counts for GPU buffer layout.
package layout

import (
	"strconv"
	"strings"

	"github.com/gogpu/glslcode/glslsrc"
)

// ScalarKind is the element type of a field.
type ScalarKind uint8

const (
	ScalarOpaque ScalarKind = iota
	ScalarBool
	ScalarSint
	ScalarUint
	ScalarFloat
	ScalarDouble
)

// String returns the GLSL name of the scalar kind.
func (k ScalarKind) String() string {
	switch k {
	case ScalarBool:
		return "bool"
	case ScalarSint:
		return "int"
	case ScalarUint:
		return "uint"
	case ScalarFloat:
		return "float"
	case ScalarDouble:
		return "double"
	default:
		return "opaque"
	}
}

// Width returns the byte width of one element, 0 for opaque types.
func (k ScalarKind) Width() int {
	switch k {
	case ScalarBool, ScalarSint, ScalarUint, ScalarFloat:
		return 4
	case ScalarDouble:
		return 8
	default:
		return 0
	}
}

// Type is a decomposed field type.
type Type struct {
	Kind  ScalarKind
	Count int
	Name  string // the GLSL type name as written
}

// Size returns the byte size of the type, 0 for opaque types.
func (t Type) Size() int {
	return t.Kind.Width() * t.Count
}

// Opaque reports whether the type name matched no vector or matrix pattern.
func (t Type) Opaque() bool {
	return t.Kind == ScalarOpaque
}

var scalars = map[string]ScalarKind{
	"bool":   ScalarBool,
	"int":    ScalarSint,
	"uint":   ScalarUint,
	"float":  ScalarFloat,
	"double": ScalarDouble,
}

var vectorPrefixes = []struct {
	prefix string
	kind   ScalarKind
}{
	{"bvec", ScalarBool},
	{"ivec", ScalarSint},
	{"uvec", ScalarUint},
	{"dvec", ScalarDouble},
	{"vec", ScalarFloat},
}

// Decompose maps a GLSL type name to its element type and component count.
//
//	bvecN -> bool x N      ivecN -> int x N      uvecN -> uint x N
//	vecN  -> float x N     matN  -> float x N*N  matNxM -> float x N*M
//
// Names matching no pattern are opaque scalars of count 1.
func Decompose(typeName string) Type {
	if kind, ok := scalars[typeName]; ok {
		return Type{Kind: kind, Count: 1, Name: typeName}
	}

	for _, v := range vectorPrefixes {
		if rest, ok := strings.CutPrefix(typeName, v.prefix); ok {
			if n, ok := dimension(rest); ok {
				return Type{Kind: v.kind, Count: n, Name: typeName}
			}
		}
	}

	kind := ScalarFloat
	rest, ok := strings.CutPrefix(typeName, "mat")
	if !ok {
		if rest, ok = strings.CutPrefix(typeName, "dmat"); ok {
			kind = ScalarDouble
		}
	}
	if ok {
		if cols, rows, found := strings.Cut(rest, "x"); found {
			n, okN := dimension(cols)
			m, okM := dimension(rows)
			if okN && okM {
				return Type{Kind: kind, Count: n * m, Name: typeName}
			}
		} else if n, ok := dimension(rest); ok {
			return Type{Kind: kind, Count: n * n, Name: typeName}
		}
	}

	return Type{Kind: ScalarOpaque, Count: 1, Name: typeName}
}

// dimension parses a vector or matrix size, which GLSL limits to 2..4.
func dimension(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 2 || n > 4 {
		return 0, false
	}
	return n, true
}

// Field is a cataloged field with its decomposed type.
type Field struct {
	glslsrc.FieldInfo
	Type Type
}

// Fields decomposes every field of infos, keeping order.
func Fields(infos []glslsrc.FieldInfo) []Field {
	fields := make([]Field, len(infos))
	for i, info := range infos {
		fields[i] = Field{
			FieldInfo: info,
			Type:      Decompose(info.TypeName),
		}
	}
	return fields
}

// Stride returns the packed byte size of a vertex made of fields,
// ignoring opaque ones.
func Stride(fields []Field) int {
	stride := 0
	for _, f := range fields {
		stride += f.Type.Size()
	}
	return stride
}
