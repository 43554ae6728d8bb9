// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import "unicode/utf8"

// TokenRef addresses a byte inside a token. Inner == 0 is the token start.
type TokenRef struct {
	Index int
	Inner int
}

// TokenSourceRef is a TokenRef that also carries the absolute byte offset
// into the source, so substrings can be cut without re-walking tokens.
type TokenSourceRef struct {
	TokenRef
	Offset int
}

// TokenRange is a contiguous span of source text.
type TokenRange struct {
	Start  TokenSourceRef
	End    TokenSourceRef // exclusive
	Length int
}

// tokenStream pairs a token list with the source it was cut from.
// Both are read-only after construction.
type tokenStream struct {
	source string
	tokens []Token
}

func newTokenStream(source string) *tokenStream {
	return &tokenStream{
		source: source,
		tokens: Tokenize(source),
	}
}

func (s *tokenStream) atEnd(r TokenSourceRef) bool {
	return r.Index >= len(s.tokens)
}

// kind returns the kind of the token under r, or TokenText past the end.
func (s *tokenStream) kind(r TokenSourceRef) TokenKind {
	if s.atEnd(r) {
		return TokenText
	}
	return s.tokens[r.Index].Kind
}

// is reports whether r is not at the end and sits on a token of kind k.
func (s *tokenStream) is(r TokenSourceRef, k TokenKind) bool {
	return !s.atEnd(r) && s.tokens[r.Index].Kind == k
}

// next advances r by one character.
func (s *tokenStream) next(r TokenSourceRef) TokenSourceRef {
	if s.atEnd(r) {
		return r
	}
	width := 1
	if c := s.source[r.Offset]; c >= utf8.RuneSelf {
		_, width = utf8.DecodeRuneInString(s.source[r.Offset:])
	}
	r.Offset += width
	r.Inner += width
	if r.Inner >= s.tokens[r.Index].Size {
		r.Index++
		r.Inner = 0
	}
	return r
}

// skipToken advances r past the remainder of the current token.
func (s *tokenStream) skipToken(r TokenSourceRef) TokenSourceRef {
	if s.atEnd(r) {
		return r
	}
	r.Offset += s.tokens[r.Index].Size - r.Inner
	r.Index++
	r.Inner = 0
	return r
}

// advanceTo moves r forward to the absolute byte offset.
func (s *tokenStream) advanceTo(r TokenSourceRef, offset int) TokenSourceRef {
	for !s.atEnd(r) && r.Offset-r.Inner+s.tokens[r.Index].Size <= offset {
		r = s.skipToken(r)
	}
	if !s.atEnd(r) && offset > r.Offset {
		r.Inner += offset - r.Offset
		r.Offset = offset
	}
	return r
}

// char returns the byte at r, or 0 past the end.
func (s *tokenStream) char(r TokenSourceRef) byte {
	if r.Offset >= len(s.source) {
		return 0
	}
	return s.source[r.Offset]
}

// skipKinds advances r past every following token whose kind is in kinds.
func (s *tokenStream) skipKinds(r TokenSourceRef, kinds ...TokenKind) TokenSourceRef {
	for !s.atEnd(r) {
		k := s.tokens[r.Index].Kind
		found := false
		for _, want := range kinds {
			if k == want {
				found = true
				break
			}
		}
		if !found {
			break
		}
		r = s.skipToken(r)
	}
	return r
}

// skipSpace advances r past horizontal whitespace.
func (s *tokenStream) skipSpace(r TokenSourceRef) TokenSourceRef {
	return s.skipKinds(r, TokenWhitespace)
}

// skipLineBreak consumes a single line break ("\n", "\r" or "\r\n") if present.
func (s *tokenStream) skipLineBreak(r TokenSourceRef) (TokenSourceRef, bool) {
	if !s.is(r, TokenLineBreak) {
		return r, false
	}
	c := s.source[r.Offset]
	r = s.skipToken(r)
	if c == '\r' && s.is(r, TokenLineBreak) && s.source[r.Offset] == '\n' {
		r = s.skipToken(r)
	}
	return r, true
}

// wordStart reports whether r begins an identifier: it sits on a word
// character and the byte before it is not one.
func (s *tokenStream) wordStart(r TokenSourceRef) bool {
	if s.atEnd(r) || !s.tokens[r.Index].Kind.isWord() {
		return false
	}
	if r.Inner > 0 {
		return false
	}
	return r.Index == 0 || !s.tokens[r.Index-1].Kind.isWord()
}

// lineStart reports whether only blanks precede r on its line.
func (s *tokenStream) lineStart(r TokenSourceRef) bool {
	for i := r.Offset - 1; i >= 0; i-- {
		switch s.source[i] {
		case ' ', '\t':
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}

// word reads an identifier-like run (letters, digits, underscores) starting at r.
func (s *tokenStream) word(r TokenSourceRef) (string, TokenSourceRef) {
	end := s.skipKinds(r, TokenLetter, TokenNumber, TokenUnderscore)
	return s.source[r.Offset:end.Offset], end
}

// keyword consumes the identifier at r if it equals kw.
func (s *tokenStream) keyword(r TokenSourceRef, kw string) (TokenSourceRef, bool) {
	if !s.wordStart(r) {
		return r, false
	}
	w, end := s.word(r)
	if w != kw {
		return r, false
	}
	return end, true
}

// identifier consumes an identifier at r. Identifiers may not start with a digit.
func (s *tokenStream) identifier(r TokenSourceRef) (string, TokenSourceRef, bool) {
	if !s.wordStart(r) || s.tokens[r.Index].Kind == TokenNumber {
		return "", r, false
	}
	w, end := s.word(r)
	return w, end, true
}

// rangeOf returns the range [start, end).
func (s *tokenStream) rangeOf(start, end TokenSourceRef) TokenRange {
	return TokenRange{
		Start:  start,
		End:    end,
		Length: end.Offset - start.Offset,
	}
}
