// Package text implements the low-level parsing core: immutable source
// positions, parse results, combinators, character-class scanners, and the
// delimited scanner. Every parser is a pure function from a Position to a
// Result; no shared mutable state exists anywhere in this package.
package text

import (
	"strings"
	"unicode/utf8"
)

// MaxNesting bounds recursive re-parsing of nested markup (directive bodies
// containing directives, and so on). Exceeding it is an ordinary parse
// failure, not a panic.
const MaxNesting = 100

// Position is an immutable reading position into a source string.
// Advancing produces a new Position; the original is never modified.
type Position struct {
	src  string
	off  int
	nest int
}

// NewPosition returns a position at the start of src with nesting level zero.
func NewPosition(src string) Position {
	return Position{src: src}
}

// NewNestedPosition returns a position at the start of src carrying an
// explicit nesting level. Used when a body substring is re-parsed as markup:
// the child parse inherits the parent's depth plus one.
func NewNestedPosition(src string, nest int) Position {
	return Position{src: src, nest: nest}
}

// Source returns the full underlying source text.
func (p Position) Source() string { return p.src }

// Offset returns the byte offset into the source.
func (p Position) Offset() int { return p.off }

// NestLevel returns the recursive re-parse depth this position carries.
func (p Position) NestLevel() int { return p.nest }

// Rest returns the unconsumed remainder of the source.
func (p Position) Rest() string { return p.src[p.off:] }

// AtEnd reports whether the position is at end of input.
func (p Position) AtEnd() bool { return p.off >= len(p.src) }

// Peek decodes the rune at the position. ok is false at end of input.
func (p Position) Peek() (r rune, ok bool) {
	if p.AtEnd() {
		return 0, false
	}
	r, _ = utf8.DecodeRuneInString(p.src[p.off:])
	return r, true
}

// Advance consumes n bytes, returning a new position. n is clamped to the
// remaining input.
func (p Position) Advance(n int) Position {
	if n < 0 {
		n = 0
	}
	if p.off+n > len(p.src) {
		n = len(p.src) - p.off
	}
	return Position{src: p.src, off: p.off + n, nest: p.nest}
}

// AdvanceRune consumes a single rune, returning the new position.
func (p Position) AdvanceRune() Position {
	if p.AtEnd() {
		return p
	}
	_, size := utf8.DecodeRuneInString(p.src[p.off:])
	return p.Advance(size)
}

// Between returns the source text between p and end. Both positions must
// refer to the same source.
func (p Position) Between(end Position) string {
	if end.off < p.off {
		return ""
	}
	return p.src[p.off:end.off]
}

// HasPrefix reports whether the unconsumed input starts with s.
func (p Position) HasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.off:], s)
}

// Nested returns a copy of the position one nesting level deeper, or false
// when MaxNesting would be exceeded. Callers turn false into an ordinary
// parse failure.
func (p Position) Nested() (Position, bool) {
	if p.nest+1 > MaxNesting {
		return p, false
	}
	return Position{src: p.src, off: p.off, nest: p.nest + 1}, true
}

// LineColumn returns the 1-based line and column of the position, computed
// on demand for diagnostics.
func (p Position) LineColumn() (line, col int) {
	line, col = 1, 1
	for _, r := range p.src[:p.off] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
