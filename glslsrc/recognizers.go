// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import (
	"strconv"
	"strings"
)

// skipBlockComment matches /* ... */.
func skipBlockComment(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	if !sc.is(at, TokenSlash) {
		return at, false, nil
	}
	star := sc.next(at)
	if !sc.is(star, TokenAsterisk) {
		return at, false, nil
	}
	body := star.Offset + 1
	idx := strings.Index(sc.source[body:], "*/")
	if idx < 0 {
		return at, false, sc.errorAt(ErrUnterminatedComment, at, sc.next(star))
	}
	end := sc.advanceTo(star, body+idx+2)
	sc.out.skips = append(sc.out.skips, sc.rangeOf(at, end))
	return end, true, nil
}

// skipLineComment matches // up to, but not including, the line break.
func skipLineComment(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	if !sc.is(at, TokenSlash) {
		return at, false, nil
	}
	r := sc.next(at)
	if !sc.is(r, TokenSlash) {
		return at, false, nil
	}
	for !sc.atEnd(r) && !sc.is(r, TokenLineBreak) {
		r = sc.skipToken(r)
	}
	sc.out.skips = append(sc.out.skips, sc.rangeOf(at, r))
	return r, true, nil
}

// skipBlock steps over a {}-delimited block so that nothing inside it is
// taken for a top-level declaration. Comments and includes inside the
// block are still collected.
func skipBlock(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	if !sc.is(at, TokenBlockOpen) {
		return at, false, nil
	}
	closeAt, err := sc.scan(sc.skipToken(at), sc.nested)
	if err != nil {
		return at, false, err
	}
	if sc.atEnd(closeAt) {
		return at, false, sc.errorAt(ErrUnterminatedBlock, at, sc.skipToken(at))
	}
	return sc.skipToken(closeAt), true, nil
}

// directive matches '#', optional blanks and the directive name.
func (sc *scanner) directive(at TokenSourceRef, name string) (TokenSourceRef, bool) {
	if !sc.is(at, TokenHash) {
		return at, false
	}
	return sc.keyword(sc.skipSpace(sc.skipToken(at)), name)
}

// collectVersion matches #version <number>. Only the first directive is
// collected; any later one is left as ordinary code.
func collectVersion(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	if sc.out.version != nil {
		return at, false, nil
	}
	r, ok := sc.directive(at, "version")
	if !ok {
		return at, false, nil
	}
	lit := sc.skipSpace(r)
	if lit == r || !sc.is(lit, TokenNumber) {
		return at, false, nil
	}
	end := sc.skipToken(lit)
	if k := sc.kind(end); !sc.atEnd(end) && (k == TokenLetter || k == TokenUnderscore) {
		return at, false, nil
	}
	text := sc.source[lit.Offset:end.Offset]
	value, err := strconv.Atoi(text)
	if err != nil {
		return at, false, nil
	}
	sc.out.version = &versionLiteral{
		At:     lit,
		Length: len(text),
		Value:  value,
	}
	return end, true, nil
}

// collectInclude matches #include "name" and #include <name>.
func collectInclude(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error) {
	r, ok := sc.directive(at, "include")
	if !ok {
		return at, false, nil
	}
	r = sc.skipSpace(r)
	if sc.atEnd(r) {
		return at, false, nil
	}
	var closing byte
	switch sc.source[r.Offset] {
	case '"':
		closing = '"'
	case '<':
		closing = '>'
	default:
		return at, false, nil
	}
	nameStart := r.Offset + 1
	line := sc.source[nameStart:]
	if eol := strings.IndexAny(line, "\r\n"); eol >= 0 {
		line = line[:eol]
	}
	idx := strings.IndexByte(line, closing)
	if idx < 0 {
		return at, false, nil
	}
	name := strings.TrimSpace(line[:idx])
	if name == "" {
		return at, false, nil
	}
	end := sc.advanceTo(r, nameStart+idx+1)
	sc.out.includes = append(sc.out.includes, includeRange{
		Range: sc.rangeOf(at, end),
		Name:  name,
	})
	return end, true, nil
}
