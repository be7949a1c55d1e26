package directive

import (
	"strings"

	"github.com/yaklabco/treemark/pkg/config"
	"github.com/yaklabco/treemark/pkg/text"
)

// Declaration is the parsed textual shape of one directive occurrence,
// before validation: `@:<name>[(<pos>...)][ {<named>}] [<body> <fence>]`.
type Declaration struct {
	Name string

	// Attrs holds the merged attribute collection, positional entries
	// first, then named entries in source order.
	Attrs []Attribute

	// Duplicates lists named attribute keys that occurred more than once
	// (first occurrence wins; each repeat is a validation problem).
	Duplicates []string

	// Problems collects declaration-level syntax problems (unclosed
	// attribute object, malformed entries, trailing junk) that the
	// validator reports ahead of attribute problems.
	Problems []string

	// HasBody reports whether a body was found and consumed.
	HasBody bool
	Body    string
	Fence   string

	// Source is the full consumed source text of the occurrence.
	Source string
}

// Positional returns only the positional attributes, in order.
func (d Declaration) Positional() []Attribute {
	var out []Attribute
	for _, a := range d.Attrs {
		if a.Name == "" {
			out = append(out, a)
		}
	}
	return out
}

// NamedRaw returns the raw source of a named attribute, if present.
func (d Declaration) NamedRaw(name string) (string, bool) {
	for _, a := range d.Attrs {
		if a.Name == name {
			return a.Raw, true
		}
	}
	return "", false
}

// maxFenceLen bounds custom closing fences (block form only).
const maxFenceLen = 3

// declaration returns the parser for a directive occurrence of the given
// family. Body consumption is driven by the registered spec: only a
// directive declared with a body consumes one, so unknown names and
// body-less directives leave the surrounding content alone.
func (r *Registry) declaration(fam Family) text.Parser[Declaration] {
	return func(pos text.Position) text.Result[Declaration] {
		if !pos.HasPrefix("@:") {
			return text.Fail[Declaration](pos, "expected %q", "@:")
		}
		cur := pos.Advance(2)

		nameRes := text.Name()(cur)
		if !nameRes.Ok() {
			return text.Fail[Declaration](pos, "expected directive name after %q", "@:")
		}
		d := Declaration{Name: nameRes.Value, Fence: DefaultFence}
		cur = nameRes.Next

		var ok bool
		if cur, ok = r.parsePositional(&d, cur); !ok {
			return text.Fail[Declaration](pos, "unclosed positional attribute list in directive %q", d.Name)
		}
		cur = r.parseNamed(&d, cur)

		spec := r.specs[d.Name]
		if spec != nil && spec.Body != BodyNone {
			cur = r.parseBody(&d, fam, cur)
		}

		d.Source = pos.Between(cur)
		return text.Succeed(d, cur)
	}
}

// parsePositional consumes an optional parenthesized attribute list. Each
// item is either a quoted string with backslash escapes or an unquoted run
// up to ',' or ')'. Returns ok=false when the list is never closed.
func (r *Registry) parsePositional(d *Declaration, pos text.Position) (text.Position, bool) {
	if c, _ := pos.Peek(); c != '(' {
		return pos, true
	}
	cur := pos.AdvanceRune()
	for {
		cur = text.Whitespace().Parse(cur).Next
		c, ok := cur.Peek()
		if !ok || c == '\n' {
			return pos, false
		}
		if c == ')' {
			return cur.AdvanceRune(), true
		}

		var raw string
		if c == '"' {
			quoted, next, closed := parseQuoted(cur)
			if !closed {
				return pos, false
			}
			raw, cur = quoted, next
		} else {
			run := text.AnyBut(',', ')', '\n').Parse(cur)
			raw, cur = text.TrimWs(run.Value), run.Next
		}
		d.Attrs = append(d.Attrs, Attribute{Raw: raw})

		cur = text.Whitespace().Parse(cur).Next
		switch c, _ := cur.Peek(); c {
		case ',':
			cur = cur.AdvanceRune()
		case ')':
			return cur.AdvanceRune(), true
		default:
			return pos, false
		}
	}
}

// parseQuoted parses a double-quoted string starting at pos, resolving
// backslash escapes.
func parseQuoted(pos text.Position) (value string, next text.Position, closed bool) {
	var sb strings.Builder
	cur := pos.AdvanceRune() // opening quote
	for {
		c, ok := cur.Peek()
		if !ok || c == '\n' {
			return "", pos, false
		}
		switch c {
		case '"':
			return sb.String(), cur.AdvanceRune(), true
		case '\\':
			cur = cur.AdvanceRune()
			esc, ok := cur.Peek()
			if !ok {
				return "", pos, false
			}
			sb.WriteRune(esc)
			cur = cur.AdvanceRune()
		default:
			sb.WriteRune(c)
			cur = cur.AdvanceRune()
		}
	}
}

// parseNamed consumes an optional brace-delimited attribute object. The
// object content reuses the configuration grammar; the closing brace is
// handled here so a missing '}' is reported as a directive-level problem
// instead of vanishing inside the value parser.
func (r *Registry) parseNamed(d *Declaration, pos text.Position) text.Position {
	afterWs := text.Whitespace().Parse(pos).Next
	if c, _ := afterWs.Peek(); c != '{' {
		return pos
	}
	cur := afterWs.AdvanceRune()
	rest := cur.Rest()
	end, ok := config.ObjectEnd(rest)
	if !ok {
		d.Problems = append(d.Problems, config.ErrUnclosedObject.Error())
		// Recover at end of line so the rest of the document survives.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			return cur.Advance(nl)
		}
		return cur.Advance(len(rest))
	}
	entries, dups, err := config.ScanObject(rest[:end])
	if err != nil {
		d.Problems = append(d.Problems, err.Error())
	} else {
		for _, e := range entries {
			d.Attrs = append(d.Attrs, Attribute{Name: e.Key, Raw: e.Raw})
		}
		d.Duplicates = dups
	}
	return cur.Advance(end + 1)
}

// parseBody consumes the directive body for its family. A fence that never
// appears leaves HasBody false and consumes nothing: the missing body
// surfaces as a validation problem, not a document failure.
func (r *Registry) parseBody(d *Declaration, fam Family, pos text.Position) text.Position {
	if fam == FamilyBlock {
		return r.parseBlockBody(d, pos)
	}
	return r.parseSpanBody(d, pos)
}

// parseBlockBody reads an optional custom fence from the remainder of the
// header line, then consumes lines up to a line consisting solely of the
// fence.
func (r *Registry) parseBlockBody(d *Declaration, pos text.Position) text.Position {
	lineRest := text.AnyBut('\n').Parse(pos)
	if token := text.TrimWs(lineRest.Value); token != "" {
		if len(token) <= maxFenceLen && !strings.ContainsAny(token, " \t") {
			d.Fence = token
		} else {
			d.Problems = append(d.Problems,
				"unexpected text after directive declaration: "+token)
		}
	}
	cur := lineRest.Next
	if cur.AtEnd() {
		return pos
	}
	cur = cur.AdvanceRune() // newline ending the header line

	body, after, found := r.scanFencedLines(cur, d.Fence)
	if !found {
		return pos
	}
	d.HasBody = true
	d.Body = trimBlankLines(body)
	return after
}

// scanFencedLines consumes lines until one whose trimmed content equals
// fence, returning the text before the fence line and the position after
// it (including its trailing newline, when present). Lines belonging to
// nested directive bodies are skipped by tracking their closing fences, so
// a nested `@:@` cannot close the outer body.
func (r *Registry) scanFencedLines(pos text.Position, fence string) (body string, after text.Position, found bool) {
	cur := pos
	bodyStart := pos
	var nested []string
	for {
		lineRes := text.AnyBut('\n').Parse(cur)
		trimmed := text.TrimWs(lineRes.Value)
		switch {
		case len(nested) > 0:
			if trimmed == nested[len(nested)-1] {
				nested = nested[:len(nested)-1]
			} else if _, nf, opens := r.headerInfo(trimmed); opens {
				nested = append(nested, nf)
			}
		case trimmed == fence:
			after = lineRes.Next
			if !after.AtEnd() {
				after = after.AdvanceRune()
			}
			return bodyStart.Between(cur), after, true
		default:
			if _, nf, opens := r.headerInfo(trimmed); opens {
				nested = append(nested, nf)
			}
		}
		if lineRes.Next.AtEnd() {
			return "", pos, false
		}
		cur = lineRes.Next.AdvanceRune()
	}
}

// trimBlankLines removes a single leading and trailing blank line.
func trimBlankLines(body string) string {
	body = strings.TrimSuffix(body, "\n")
	if i := strings.IndexByte(body, '\n'); i >= 0 && text.TrimWs(body[:i]) == "" {
		body = body[i+1:]
	} else if text.TrimWs(body) == "" {
		return ""
	}
	if i := strings.LastIndexByte(body, '\n'); i >= 0 && text.TrimWs(body[i+1:]) == "" {
		body = body[:i]
	}
	return body
}

// parseSpanBody consumes inline body text up to the default fence. Span and
// template directives cannot declare custom fences.
func (r *Registry) parseSpanBody(d *Declaration, pos text.Position) text.Position {
	cur := pos
	if c, _ := cur.Peek(); c == ' ' {
		cur = cur.AdvanceRune()
	}
	res := text.UntilLit(d.Fence).Parse(cur)
	if !res.Ok() {
		return pos
	}
	d.HasBody = true
	d.Body = text.TrimWs(res.Value.Text)
	return res.Next
}
