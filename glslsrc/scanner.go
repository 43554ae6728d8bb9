// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslsrc

// recognizer tries to match a construct at at. On a match it returns the
// position after the construct and may have appended to the scanner's
// collections. A non-nil error aborts the whole scan.
type recognizer func(sc *scanner, at TokenSourceRef) (TokenSourceRef, bool, error)

type includeRange struct {
	Range TokenRange
	Name  string
}

type versionLiteral struct {
	At     TokenSourceRef
	Length int
	Value  int
}

// collected holds everything the scanner found, in source order.
type collected struct {
	skips    []TokenRange
	includes []includeRange
	inputs   []FieldInfo
	uniforms []FieldInfo
	version  *versionLiteral
}

// mark is a snapshot of collection lengths used for rollback.
type mark struct {
	skips, includes, inputs, uniforms int
	version                           bool
}

// scanner is the block scanner: it runs an ordered recognizer list over
// the token stream, taking the first match at each position.
type scanner struct {
	*tokenStream
	unit string
	out  collected

	topLevel []recognizer
	nested   []recognizer
}

func newScanner(unit, source string) *scanner {
	return &scanner{
		tokenStream: newTokenStream(source),
		unit:        unit,
		topLevel: []recognizer{
			skipBlockComment,
			skipLineComment,
			skipBlock,
			collectVersion,
			collectInclude,
			collectField,
		},
		// Declarations are only cataloged at top level.
		nested: []recognizer{
			skipBlockComment,
			skipLineComment,
			skipBlock,
			collectInclude,
		},
	}
}

func (sc *scanner) mark() mark {
	return mark{
		skips:    len(sc.out.skips),
		includes: len(sc.out.includes),
		inputs:   len(sc.out.inputs),
		uniforms: len(sc.out.uniforms),
		version:  sc.out.version != nil,
	}
}

func (sc *scanner) rollback(m mark) {
	sc.out.skips = sc.out.skips[:m.skips]
	sc.out.includes = sc.out.includes[:m.includes]
	sc.out.inputs = sc.out.inputs[:m.inputs]
	sc.out.uniforms = sc.out.uniforms[:m.uniforms]
	if !m.version {
		sc.out.version = nil
	}
}

// scan runs recognizers from at until the end of the stream or an
// unmatched '}' and returns the position where it stopped.
func (sc *scanner) scan(at TokenSourceRef, recognizers []recognizer) (TokenSourceRef, error) {
	for !sc.atEnd(at) {
		if sc.is(at, TokenBlockClose) {
			return at, nil
		}

		matched := false
		for _, recognize := range recognizers {
			m := sc.mark()
			next, ok, err := recognize(sc, at)
			if err != nil {
				sc.rollback(m)
				return at, err
			}
			if ok {
				at = next
				matched = true
				break
			}
			sc.rollback(m)
		}

		if !matched {
			at = sc.next(at)
		}
	}
	return at, nil
}

// errorAt builds a SourceError for the byte range [start, end).
func (sc *scanner) errorAt(err error, start, end TokenSourceRef) error {
	return newSourceError(err, sc.unit, sc.source, start.Offset, end.Offset)
}
