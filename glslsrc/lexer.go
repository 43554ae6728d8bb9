// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import (
	"unicode"
	"unicode/utf8"
)

// Lexer splits shader source into run-length encoded tokens.
type Lexer struct {
	source string
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Runs are short in shader code; ~1 token per 3 bytes.
	estTokens := len(source) / 3
	if estTokens < 16 {
		estTokens = 16
	}
	return &Lexer{
		source: source,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns the token stream covering the whole source.
// The sizes of the returned tokens always sum to len(source).
func (l *Lexer) Tokenize() []Token {
	for !l.isAtEnd() {
		kind, size := l.advance()
		l.addRun(kind, size)
	}
	return l.tokens
}

// Tokenize is a shorthand for NewLexer(source).Tokenize().
func Tokenize(source string) []Token {
	return NewLexer(source).Tokenize()
}

func (l *Lexer) addRun(kind TokenKind, size int) {
	if n := len(l.tokens); n > 0 && kind.merges() && l.tokens[n-1].Kind == kind {
		l.tokens[n-1].Size += size
		return
	}
	l.tokens = append(l.tokens, Token{Kind: kind, Size: size})
}

func (l *Lexer) advance() (TokenKind, int) {
	c := l.source[l.pos]
	if c < utf8.RuneSelf {
		l.pos++
		return classifyByte(c), 1
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	if r == utf8.RuneError && size == 1 {
		return TokenText, 1
	}
	return classifyRune(r), size
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func classifyByte(c byte) TokenKind {
	switch c {
	case '\r', '\n':
		return TokenLineBreak
	case ' ', '\t', '\v', '\f':
		return TokenWhitespace
	case '_':
		return TokenUnderscore
	case '#':
		return TokenHash
	case '/':
		return TokenSlash
	case '*':
		return TokenAsterisk
	case '=':
		return TokenEqual
	case ';':
		return TokenSemicolon
	case '"':
		return TokenQuote
	case '{':
		return TokenBlockOpen
	case '}':
		return TokenBlockClose
	case '[':
		return TokenBracketOpen
	case ']':
		return TokenBracketClose
	case '(':
		return TokenParenOpen
	case ')':
		return TokenParenClose
	}
	switch {
	case c >= '0' && c <= '9':
		return TokenNumber
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return TokenLetter
	}
	return TokenText
}

func classifyRune(r rune) TokenKind {
	switch {
	case unicode.IsLetter(r):
		return TokenLetter
	case unicode.IsSpace(r):
		return TokenWhitespace
	}
	return TokenText
}
