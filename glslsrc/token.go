// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

// TokenKind is the lexical class of a token.
type TokenKind uint8

const (
	TokenText TokenKind = iota
	TokenLetter
	TokenNumber
	TokenUnderscore
	TokenWhitespace
	TokenLineBreak

	// Punctuation, always one character per token
	TokenHash         // #
	TokenSlash        // /
	TokenAsterisk     // *
	TokenEqual        // =
	TokenSemicolon    // ;
	TokenQuote        // "
	TokenBlockOpen    // {
	TokenBlockClose   // }
	TokenBracketOpen  // [
	TokenBracketClose // ]
	TokenParenOpen    // (
	TokenParenClose   // )
)

var tokenKindNames = [...]string{
	TokenText:         "Text",
	TokenLetter:       "Letter",
	TokenNumber:       "Number",
	TokenUnderscore:   "Underscore",
	TokenWhitespace:   "Whitespace",
	TokenLineBreak:    "LineBreak",
	TokenHash:         "#",
	TokenSlash:        "/",
	TokenAsterisk:     "*",
	TokenEqual:        "=",
	TokenSemicolon:    ";",
	TokenQuote:        "\"",
	TokenBlockOpen:    "{",
	TokenBlockClose:   "}",
	TokenBracketOpen:  "[",
	TokenBracketClose: "]",
	TokenParenOpen:    "(",
	TokenParenClose:   ")",
}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// merges reports whether consecutive characters of this kind share one token.
func (k TokenKind) merges() bool {
	switch k {
	case TokenText, TokenLetter, TokenNumber, TokenUnderscore, TokenWhitespace:
		return true
	default:
		return false
	}
}

// isWord reports whether the kind can be part of an identifier.
func (k TokenKind) isWord() bool {
	return k == TokenLetter || k == TokenNumber || k == TokenUnderscore
}

// Token is a run of source bytes sharing one lexical class.
type Token struct {
	Kind TokenKind
	Size int // in bytes
}
