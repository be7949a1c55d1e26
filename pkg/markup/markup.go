// Package markup provides the reference host grammar for treemark
// documents: blank-line-separated paragraphs, block and span directives,
// `${ref}` substitution spans, and backslash escapes. It exists to exercise
// the parsing core end to end; real host formats plug their own block and
// span parsers into the same engine.
package markup

import (
	"strings"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/directive"
	"github.com/yaklabco/treemark/pkg/inline"
	"github.com/yaklabco/treemark/pkg/text"
)

// Format is a configured parser for one markup dialect: a directive
// registry plus the span parsers active in inline content. Construct with
// New; a Format is immutable and safe for concurrent use.
type Format struct {
	registry   *directive.Registry
	engine     *inline.Engine
	blockDir   text.Parser[ast.Node]
	subs       map[string]string
	cursor     any
	extensions []inline.SpanParser
}

// Option configures a Format.
type Option func(*Format)

// WithSubstitutions supplies the bindings for `${ref}` substitution spans.
// A reference resolving to the empty string contributes no node, so the
// surrounding text merges into one node.
func WithSubstitutions(subs map[string]string) Option {
	return func(f *Format) { f.subs = subs }
}

// WithCursor supplies the opaque document cursor threaded through to
// directive builders. The parser never inspects it.
func WithCursor(cursor any) Option {
	return func(f *Format) { f.cursor = cursor }
}

// WithSpanParsers registers extension span parsers. Extensions win prefix
// conflicts against the host parsers within the same precedence tier.
func WithSpanParsers(parsers ...inline.SpanParser) Option {
	return func(f *Format) { f.extensions = append(f.extensions, parsers...) }
}

// New builds a Format over the given directive registry.
func New(registry *directive.Registry, opts ...Option) *Format {
	f := &Format{registry: registry}
	for _, opt := range opts {
		opt(f)
	}

	// The engine and the directive parsers reference each other: directive
	// bodies re-parse as inline markup through the engine that dispatches
	// to the directive parsers. The closure breaks the cycle.
	recurse := func(body string, at text.Position) ([]ast.Node, error) {
		return f.engine.Recurse(body, at)
	}

	parsers := []inline.SpanParser{
		{
			StartChars: []rune{'\\'},
			Precedence: inline.PrecedenceHigh,
			Origin:     inline.OriginHost,
			Parse:      escapedChar,
		},
		{
			StartChars: []rune{'@'},
			Precedence: inline.PrecedenceHigh,
			Origin:     inline.OriginHost,
			Parse:      registry.Span(recurse, f.cursor),
		},
		{
			StartChars: []rune{'$'},
			Precedence: inline.PrecedenceLow,
			Origin:     inline.OriginHost,
			Parse:      f.substitution,
		},
	}
	parsers = append(parsers, f.extensions...)

	f.engine = inline.NewEngine(parsers...)
	f.blockDir = registry.Block(recurse, f.cursor)
	return f
}

// Engine exposes the configured span engine, for callers that parse inline
// fragments directly.
func (f *Format) Engine() *inline.Engine {
	return f.engine
}

// Parse parses a whole document. It never fails: structural problems
// degrade to literal text and invalid directives become invalid-node
// placeholders inside an otherwise valid tree.
func (f *Format) Parse(src string) ast.Element {
	var blocks []ast.Node
	var para []string

	flush := func() {
		if len(para) == 0 {
			return
		}
		nodes := f.engine.ParseInline(strings.Join(para, "\n"))
		blocks = append(blocks, ast.Element{Name: "paragraph", Children: nodes})
		para = nil
	}

	pos := text.NewPosition(src)
	for !pos.AtEnd() {
		lineRes := text.AnyBut('\n').Parse(pos)
		line := lineRes.Value

		switch {
		case text.TrimWs(line) == "":
			flush()
		case strings.HasPrefix(line, "@:"):
			r := f.blockDir(pos)
			if r.Ok() {
				flush()
				blocks = ast.Append(blocks, r.Value)
				pos = r.Next
				continue
			}
			// Not a parseable directive: the line is ordinary text.
			para = append(para, line)
		default:
			para = append(para, line)
		}

		pos = lineRes.Next
		if !pos.AtEnd() {
			pos = pos.AdvanceRune()
		}
	}
	flush()

	return ast.Element{Name: "document", Children: blocks}
}

// ParseInline parses a fragment as inline content only.
func (f *Format) ParseInline(src string) []ast.Node {
	return f.engine.ParseInline(src)
}

// SpanExtension wraps a plain matching function as an extension span
// parser: parse receives the remaining input and reports the produced node,
// the number of bytes consumed, and whether it matched. Extensions register
// at high precedence and win prefix conflicts against the host parsers.
func SpanExtension(start rune, parse func(src string) (ast.Node, int, bool)) inline.SpanParser {
	return inline.SpanParser{
		StartChars: []rune{start},
		Precedence: inline.PrecedenceHigh,
		Origin:     inline.OriginExtension,
		Parse: func(pos text.Position) text.Result[ast.Node] {
			node, n, ok := parse(pos.Rest())
			if !ok {
				return text.Fail[ast.Node](pos, "extension parser did not match")
			}
			return text.Succeed(node, pos.Advance(n))
		},
	}
}

// escapedChar turns a backslash followed by any character into that
// literal character.
func escapedChar(pos text.Position) text.Result[ast.Node] {
	if c, _ := pos.Peek(); c != '\\' {
		return text.Fail[ast.Node](pos, "expected escape")
	}
	cur := pos.AdvanceRune()
	c, ok := cur.Peek()
	if !ok {
		return text.Fail[ast.Node](pos, "dangling escape at end of input")
	}
	return text.Succeed[ast.Node](ast.Text{Content: string(c)}, cur.AdvanceRune())
}

// substitution parses `${ref}` and resolves it against the configured
// bindings. Unknown references fail, degrading to literal text.
func (f *Format) substitution(pos text.Position) text.Result[ast.Node] {
	if !pos.HasPrefix("${") {
		return text.Fail[ast.Node](pos, "expected %q", "${")
	}
	cur := pos.Advance(2)
	ref := text.AnyWhile(func(r rune) bool {
		return text.IsNameChar(r) || r == '.'
	}).Min(1).Parse(cur)
	if !ref.Ok() {
		return text.FailWith[ast.Node](ref.Err)
	}
	cur = ref.Next
	if c, _ := cur.Peek(); c != '}' {
		return text.Fail[ast.Node](cur, "unclosed substitution reference")
	}
	val, ok := f.subs[ref.Value]
	if !ok {
		return text.Fail[ast.Node](pos, "undefined substitution reference %q", ref.Value)
	}
	return text.Succeed[ast.Node](ast.Text{Content: val}, cur.AdvanceRune())
}
