package inline

import (
	"strings"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/text"
)

// Engine is the recursive span engine: it produces the ordered list of
// inline nodes for a span of source text, degrading every unrecognized or
// malformed nested construct to literal text. Parsing markup must not fail;
// the only hard failure the engine can produce is a failure of the
// underlying delimited scanner (e.g. a mandatory delimiter never found).
type Engine struct {
	dispatch *Dispatch
}

// NewEngine builds an engine over the given span parsers.
func NewEngine(parsers ...SpanParser) *Engine {
	return &Engine{dispatch: NewDispatch(parsers)}
}

// Dispatch exposes the underlying prefix dispatch table.
func (e *Engine) Dispatch() *Dispatch {
	return e.dispatch
}

// Spans returns a parser that reads inline nodes until delim succeeds.
// Reaching end of input before the delimiter is a failure.
func (e *Engine) Spans(delim text.Parser[string]) text.Parser[[]ast.Node] {
	return e.spans(text.Until(delim).StopOn(e.dispatch.StartChars()...))
}

// SpansToEOF returns a parser that reads inline nodes up to end of input.
func (e *Engine) SpansToEOF() text.Parser[[]ast.Node] {
	none := func(pos text.Position) text.Result[string] {
		return text.Fail[string](pos, "no delimiter")
	}
	return e.spans(text.Until(none).StopOn(e.dispatch.StartChars()...).AllowEOF())
}

// spans is the core loop: scan literal text up to the next interesting
// character, hand that character's parser the remaining input, and fold the
// results with a pending-text accumulator so adjacent text merges into one
// node.
func (e *Engine) spans(scanner text.Delimited) text.Parser[[]ast.Node] {
	return func(pos text.Position) text.Result[[]ast.Node] {
		var nodes []ast.Node
		var pending strings.Builder
		flush := func() {
			if pending.Len() > 0 {
				nodes = append(nodes, ast.Text{Content: pending.String()})
				pending.Reset()
			}
		}

		cur := pos
		for {
			scanned := scanner.Parse(cur)
			if !scanned.Ok() {
				return text.FailWith[[]ast.Node](scanned.Err)
			}
			pending.WriteString(scanned.Value.Text)
			cur = scanned.Next

			if scanned.Value.Reason != text.StoppedAtChar {
				flush()
				return text.Succeed(nodes, cur)
			}

			p, ok := e.dispatch.ParserFor(scanned.Value.StopChar)
			if !ok {
				// Unreachable in practice: the stop set is derived from the
				// dispatch table. Degrade to literal text regardless.
				pending.WriteRune(scanned.Value.StopChar)
				cur = cur.AdvanceRune()
				continue
			}
			r := p(cur)
			if !r.Ok() || r.Next.Offset() <= cur.Offset() {
				// Malformed or unknown nested start: the single character
				// becomes literal text and scanning resumes after it.
				pending.WriteRune(scanned.Value.StopChar)
				cur = cur.AdvanceRune()
				continue
			}
			// A parsed node that contributes nothing (nil, or an empty text
			// span) leaves the pending text open, so the literal text on
			// both sides of it merges into one node.
			if isEmpty(r.Value) {
				cur = r.Next
				continue
			}
			flush()
			nodes = append(nodes, r.Value)
			cur = r.Next
		}
	}
}

func isEmpty(n ast.Node) bool {
	if n == nil {
		return true
	}
	t, ok := n.(ast.Text)
	return ok && t.Content == ""
}

// ParseInline parses src as inline markup to end of input. It never returns
// an error: with no mandatory delimiter the scanner cannot fail.
func (e *Engine) ParseInline(src string) []ast.Node {
	r := e.SpansToEOF()(text.NewPosition(src))
	if !r.Ok() {
		return []ast.Node{ast.Text{Content: src}}
	}
	return r.Value
}

// Recurse re-parses body text as inline markup one nesting level deeper
// than the position it was extracted from. Exceeding the nesting limit is
// an ordinary error, never a stack overflow.
func (e *Engine) Recurse(body string, at text.Position) ([]ast.Node, error) {
	nested, ok := at.Nested()
	if !ok {
		return nil, &text.ParseError{
			Message:   "markup nesting exceeds maximum depth",
			At:        at,
			MaxOffset: at.Offset(),
		}
	}
	r := e.SpansToEOF()(text.NewNestedPosition(body, nested.NestLevel()))
	if !r.Ok() {
		return []ast.Node{ast.Text{Content: body}}, nil
	}
	return r.Value, nil
}
