// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import "strconv"

var interpolationQualifiers = map[string]bool{
	"flat":          true,
	"smooth":        true,
	"noperspective": true,
	"centroid":      true,
	"sample":        true,
	"invariant":     true,
}

var precisionQualifiers = map[string]bool{
	"lowp":    true,
	"mediump": true,
	"highp":   true,
}

// storageQualifiers maps declaration keywords to the catalog they feed.
// "attribute" is the pre-1.30 spelling of a vertex input.
var storageQualifiers = map[string]FieldKind{
	"in":        FieldInput,
	"attribute": FieldInput,
	"uniform":   FieldUniform,
}

// collectField matches
//
//	[ALIAS]
//	layout(location = N) in vec3 name;
//
// where the alias annotation and the layout qualifier are optional and the
// annotation sits on the same line or the line above. The annotation must
// open its line, so subscripts like a[i] are never taken for one. It is
// not GLSL, so its span is recorded as a skip range.
func collectField(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	r := at
	var field FieldInfo

	if sc.is(r, TokenBracketOpen) {
		if !sc.lineStart(r) {
			return at, false, nil
		}
		alias, end, ok := sc.aliasAnnotation(r)
		if !ok {
			return at, false, nil
		}
		sc.out.skips = append(sc.out.skips, sc.rangeOf(r, end))
		field.Alias = alias
		r = sc.skipSpace(end)
		if next, ok := sc.skipLineBreak(r); ok {
			r = sc.skipSpace(next)
		}
	}

	if next, ok := sc.keyword(r, "layout"); ok {
		loc, end, ok := sc.layoutQualifier(next)
		if !ok {
			return at, false, nil
		}
		field.Location = loc
		r = sc.skipGap(end)
	}

	for {
		name, end, ok := sc.identifier(r)
		if !ok || !interpolationQualifiers[name] {
			break
		}
		r = sc.skipGap(end)
	}

	qualifier, end, ok := sc.identifier(r)
	if !ok {
		return at, false, nil
	}
	kind, ok := storageQualifiers[qualifier]
	if !ok {
		return at, false, nil
	}
	r = sc.skipGap(end)

	typeName, end, ok := sc.identifier(r)
	if !ok {
		return at, false, nil
	}
	if precisionQualifiers[typeName] {
		r = sc.skipGap(end)
		if typeName, end, ok = sc.identifier(r); !ok {
			return at, false, nil
		}
	}
	field.TypeName = typeName
	r = sc.skipGap(end)

	if field.Name, end, ok = sc.identifier(r); !ok {
		return at, false, nil
	}
	r = sc.skipGap(end)

	if !sc.is(r, TokenSemicolon) {
		return at, false, nil
	}
	r = sc.skipToken(r)

	if kind == FieldUniform {
		sc.out.uniforms = append(sc.out.uniforms, field)
	} else {
		sc.out.inputs = append(sc.out.inputs, field)
	}
	return r, true, nil
}

// skipGap advances past whitespace and line breaks.
func (sc *scanner) skipGap(r TokenSourceRef) TokenSourceRef {
	return sc.skipKinds(r, TokenWhitespace, TokenLineBreak)
}

// aliasAnnotation matches [NAME] and returns NAME.
func (sc *scanner) aliasAnnotation(at TokenSourceRef) (string, TokenSourceRef, bool) {
	r := sc.skipSpace(sc.skipToken(at))
	alias, end, ok := sc.identifier(r)
	if !ok {
		return "", at, false
	}
	r = sc.skipSpace(end)
	if !sc.is(r, TokenBracketClose) {
		return "", at, false
	}
	return alias, sc.skipToken(r), true
}

// layoutQualifier matches "(id [= N], ...)" after the layout keyword and
// returns the location value if one was given.
func (sc *scanner) layoutQualifier(at TokenSourceRef) (*uint32, TokenSourceRef, bool) {
	r := sc.skipGap(at)
	if !sc.is(r, TokenParenOpen) {
		return nil, at, false
	}
	r = sc.skipToken(r)

	var location *uint32
	for {
		name, end, ok := sc.identifier(sc.skipGap(r))
		if !ok {
			return nil, at, false
		}
		r = sc.skipGap(end)

		if sc.is(r, TokenEqual) {
			r = sc.skipGap(sc.skipToken(r))
			if !sc.is(r, TokenNumber) {
				return nil, at, false
			}
			var text string
			text, r = sc.word(r)
			value, err := strconv.ParseUint(text, 0, 32)
			if err != nil {
				return nil, at, false
			}
			if name == "location" {
				loc := uint32(value)
				location = &loc
			}
			r = sc.skipGap(r)
		}

		switch {
		case sc.is(r, TokenParenClose):
			return location, sc.skipToken(r), true
		case sc.char(r) == ',':
			r = sc.next(r)
		default:
			return nil, at, false
		}
	}
}
