// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Structural failures. A *SourceError returned by the parser wraps exactly one of these.
var (
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrUnterminatedBlock   = errors.New("unterminated block")
	ErrUnmatchedBlockClose = errors.New("unmatched '}'")
)

// Span represents a source code location span.
type Span struct {
	Start  Position
	End    Position
	Source string // Source unit name
}

// Position represents a position in source code.
type Position struct {
	Line   int
	Column int
	Offset int
}

// SourceError is a structural parse failure with source location information.
type SourceError struct {
	Err    error // one of the Err* sentinels
	Span   Span
	Source string // Original source code (for context display)
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	var sb strings.Builder
	if e.Span.Source != "" {
		sb.WriteString(e.Span.Source)
		sb.WriteString(":")
	}
	if e.Span.Start.Line != 0 {
		fmt.Fprintf(&sb, "%d:%d:", e.Span.Start.Line, e.Span.Start.Column)
	}
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	sb.WriteString(e.Err.Error())
	return sb.String()
}

// Unwrap returns the sentinel error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || e.Span.Start.Line == 0 {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	lineNum := e.Span.Start.Line
	if lineNum < 1 || lineNum > len(lines) {
		return e.Error()
	}

	line := strings.TrimSuffix(lines[lineNum-1], "\r")
	col := e.Span.Start.Column
	if col < 1 {
		col = 1
	}
	if n := utf8.RuneCountInString(line); col > n+1 {
		col = n + 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Err)
	if e.Span.Source != "" {
		fmt.Fprintf(&sb, "  --> %s:%d:%d\n", e.Span.Source, lineNum, col)
	} else {
		fmt.Fprintf(&sb, "  --> line %d:%d\n", lineNum, col)
	}
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}

// newSourceError builds a SourceError for the byte range [start, end) of source.
func newSourceError(err error, unit, source string, start, end int) *SourceError {
	return &SourceError{
		Err: err,
		Span: Span{
			Start:  positionAt(source, start),
			End:    positionAt(source, end),
			Source: unit,
		},
		Source: source,
	}
}

// positionAt converts a byte offset to a 1-based line and rune column.
func positionAt(source string, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	prefix := source[:offset]
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return Position{
		Line:   line,
		Column: utf8.RuneCountInString(prefix[lineStart:]) + 1,
		Offset: offset,
	}
}
