// Package linker splices included source units into a parsed shader,
// producing the program text handed to the GPU compiler.
package linker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/glslcode/glslsrc"
)

// ErrIncludeCycle is returned when a unit includes itself, directly or not.
var ErrIncludeCycle = errors.New("include cycle")

// Library returns the parsed form of a source unit.
type Library func(id int) (*glslsrc.ShaderCode, error)

// Link splices every unit root includes, recursively. Each unit is
// spliced once, at its first marker; later markers for it are dropped.
// The #version line of included units is removed.
func Link(root *glslsrc.ShaderCode, lib Library) (string, error) {
	l := newLinker(lib)
	if err := l.expand(root, false); err != nil {
		return "", err
	}
	return l.out.String(), nil
}

// LinkUnit links the unit with the given id.
func LinkUnit(id int, lib Library) (string, error) {
	root, err := lib(id)
	if err != nil {
		return "", err
	}
	l := newLinker(lib)
	l.spliced[id] = true
	l.active[id] = true
	if err := l.expand(root, false); err != nil {
		return "", err
	}
	return l.out.String(), nil
}

type linker struct {
	lib     Library
	out     strings.Builder
	spliced map[int]bool
	active  map[int]bool // units being expanded
	path    []int
}

func newLinker(lib Library) *linker {
	return &linker{
		lib:     lib,
		spliced: make(map[int]bool),
		active:  make(map[int]bool),
	}
}

func (l *linker) expand(code *glslsrc.ShaderCode, included bool) error {
	text := code.Code
	cutStart, cutEnd := -1, -1
	if included && code.Version != nil {
		cutStart, cutEnd = versionLine(text, code.Version.Position)
	}
	copyText := func(from, to int) {
		if cutStart < 0 || to <= cutStart || from >= cutEnd {
			l.out.WriteString(text[from:to])
			return
		}
		if from < cutStart {
			l.out.WriteString(text[from:cutStart])
		}
		if to > cutEnd {
			l.out.WriteString(text[cutEnd:to])
		}
	}

	pos := 0
	for _, m := range code.IncludeMarkers {
		copyText(pos, m.Offset)
		pos = m.Offset

		if l.active[m.SourceID] {
			return fmt.Errorf("unit %d via %v: %w", m.SourceID, l.path, ErrIncludeCycle)
		}
		if l.spliced[m.SourceID] {
			continue
		}
		unit, err := l.lib(m.SourceID)
		if err != nil {
			return fmt.Errorf("load unit %d: %w", m.SourceID, err)
		}
		l.spliced[m.SourceID] = true
		l.active[m.SourceID] = true
		l.path = append(l.path, m.SourceID)
		if err := l.expand(unit, true); err != nil {
			return err
		}
		l.path = l.path[:len(l.path)-1]
		delete(l.active, m.SourceID)
	}
	copyText(pos, len(text))
	return nil
}

// versionLine returns the span of the line holding the version literal
// at pos, including its line break.
func versionLine(text string, pos int) (int, int) {
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := len(text)
	if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
		end = pos + i + 1
	}
	return start, end
}
