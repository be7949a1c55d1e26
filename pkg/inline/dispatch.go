// Package inline implements prefix-dispatched parsing of span content: many
// independently registered parsers, each keyed by the characters that may
// start a match, composed into a single engine that never fails on
// unrecognized input.
package inline

import (
	"sort"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/text"
)

// Precedence ranks parsers claiming the same start character.
type Precedence int

const (
	// PrecedenceLow is the default tier for host-format parsers.
	PrecedenceLow Precedence = iota

	// PrecedenceHigh is tried before PrecedenceLow under the same prefix.
	PrecedenceHigh
)

// Origin records whether a parser comes from the host format or from an
// extension. Under the same precedence tier, extension parsers are tried
// before host parsers: extensions deliberately win prefix conflicts.
type Origin int

const (
	// OriginHost marks a parser belonging to the host markup format.
	OriginHost Origin = iota

	// OriginExtension marks a parser registered by an extension.
	OriginExtension
)

// SpanParser is a parser annotated with the characters that may start a
// successful match. A parser declaring start characters must fail, without
// consuming, on any other first character; that contract is what makes O(1)
// dispatch sound, and Dispatch enforces it with a peek guard.
type SpanParser struct {
	// StartChars lists the characters that may begin a match. Empty means
	// unconditional: the parser joins the fallback tried only when no
	// start-character group claims the peeked character.
	StartChars []rune

	Precedence Precedence
	Origin     Origin

	Parse text.Parser[ast.Node]
}

// Dispatch indexes span parsers by first character for O(1) lookup.
type Dispatch struct {
	byChar   map[rune]text.Parser[ast.Node]
	fallback text.Parser[ast.Node]
	chars    []rune
}

// NewDispatch groups the given parsers by start character. Parsers sharing
// a character are merged with ordered alternation: High tier before Low,
// extensions before host within a tier, registration order within that.
func NewDispatch(parsers []SpanParser) *Dispatch {
	ordered := make([]SpanParser, len(parsers))
	copy(ordered, parsers)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Precedence != ordered[j].Precedence {
			return ordered[i].Precedence > ordered[j].Precedence
		}
		return ordered[i].Origin > ordered[j].Origin
	})

	groups := make(map[rune][]text.Parser[ast.Node])
	var fallbacks []text.Parser[ast.Node]
	for _, sp := range ordered {
		if len(sp.StartChars) == 0 {
			fallbacks = append(fallbacks, sp.Parse)
			continue
		}
		for _, c := range sp.StartChars {
			groups[c] = append(groups[c], guarded(c, sp.Parse))
		}
	}

	d := &Dispatch{byChar: make(map[rune]text.Parser[ast.Node], len(groups))}
	for c, ps := range groups {
		if len(ps) == 1 {
			d.byChar[c] = ps[0]
		} else {
			d.byChar[c] = text.First(ps...)
		}
		d.chars = append(d.chars, c)
	}
	if len(fallbacks) == 1 {
		d.fallback = fallbacks[0]
	} else if len(fallbacks) > 1 {
		d.fallback = text.First(fallbacks...)
	}
	return d
}

// guarded wraps p so it fails immediately unless the peeked character is c.
func guarded(c rune, p text.Parser[ast.Node]) text.Parser[ast.Node] {
	return func(pos text.Position) text.Result[ast.Node] {
		if r, ok := pos.Peek(); !ok || r != c {
			return text.Fail[ast.Node](pos, "expected %q", c)
		}
		return p(pos)
	}
}

// StartChars returns every character with a registered group, in no
// particular order. The span engine uses this as its stop set.
func (d *Dispatch) StartChars() []rune {
	return d.chars
}

// ParserFor returns the merged parser for start character r, if any.
func (d *Dispatch) ParserFor(r rune) (text.Parser[ast.Node], bool) {
	p, ok := d.byChar[r]
	return p, ok
}

// Parse peeks one character, looks up its group, and runs it; parsers with
// no specific start character are the fallback when no group claims the
// character. A registered parser is authoritative for its character: its
// failure is the failure of the whole dispatch, with no retry of other
// groups.
func (d *Dispatch) Parse(pos text.Position) text.Result[ast.Node] {
	r, ok := pos.Peek()
	if !ok {
		return text.Fail[ast.Node](pos, "unexpected end of input")
	}
	if p, found := d.byChar[r]; found {
		return p(pos)
	}
	if d.fallback != nil {
		return d.fallback(pos)
	}
	return text.Fail[ast.Node](pos, "no parser registered for %q", r)
}
