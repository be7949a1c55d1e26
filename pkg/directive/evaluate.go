package directive

import (
	"fmt"
	"strings"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/text"
)

// evaluate validates a parsed declaration against its spec and builds the
// output node. Validation never short-circuits: every positional, named,
// body, and separator problem is collected, in that order, and rendered as
// one invalid-node placeholder carrying the original source text.
func (r *Registry) evaluate(d Declaration, fam Family, recurse RecurseFunc, cursor any, at text.Position) ast.Node {
	spec := r.specs[d.Name]
	if spec == nil {
		if len(r.sepOwners[d.Name]) > 0 {
			return ast.Invalid{
				Message: fmt.Sprintf("orphaned separator directive with name: %s", d.Name),
				Source:  d.Source,
			}
		}
		return ast.Invalid{
			Message: fmt.Sprintf("no directive registered with name: %s", d.Name),
			Source:  d.Source,
		}
	}

	problems := append([]string(nil), d.Problems...)

	positional, posProblems := r.decodePositional(spec, d)
	problems = append(problems, posProblems...)

	named, namedProblems := r.decodeNamed(spec, d)
	problems = append(problems, namedProblems...)

	if spec.Body != BodyNone && !d.HasBody {
		problems = append(problems, "required body is missing")
	}

	mainBody := d.Body
	var parts []Part
	if d.HasBody && len(spec.Separators) > 0 {
		var sepProblems []string
		mainBody, parts, sepProblems = r.splitParts(spec, d.Body)
		problems = append(problems, sepProblems...)
	}

	if len(problems) > 0 {
		return ast.Invalid{
			Message: fmt.Sprintf("invalid directive '%s': %s", d.Name, strings.Join(problems, "; ")),
			Source:  d.Source,
		}
	}

	ctx := &Context{
		name:       d.Name,
		family:     fam,
		source:     d.Source,
		positional: positional,
		named:      named,
		rawBody:    mainBody,
		parts:      parts,
		cursor:     cursor,
		recurse:    recurse,
		at:         at,
	}
	if spec.Body == BodyParsed && d.HasBody {
		ctx.bodyNodes = ctx.Parse(mainBody)
	}

	node, err := spec.Build(ctx)
	if err != nil {
		return ast.Invalid{
			Message: fmt.Sprintf("invalid directive '%s': %s", d.Name, err),
			Source:  d.Source,
		}
	}
	return node
}

// decodePositional decodes the positional attributes against the spec,
// collecting one problem per missing or malformed attribute. The returned
// slice is aligned to the spec: absent optional attributes are nil.
func (r *Registry) decodePositional(spec *Spec, d Declaration) (values []any, problems []string) {
	supplied := d.Positional()
	values = make([]any, len(spec.Positional))
	for i, attr := range spec.Positional {
		if i >= len(supplied) {
			if attr.Required {
				problems = append(problems, fmt.Sprintf("required positional attribute %d is missing", i))
			}
			continue
		}
		raw := supplied[i].Raw
		if attr.Decode == nil {
			values[i] = raw
			continue
		}
		v, err := attr.Decode(raw, r.decoder)
		if err != nil {
			problems = append(problems, fmt.Sprintf("positional attribute %d: %s", i, err))
			continue
		}
		values[i] = v
	}
	return values, problems
}

// decodeNamed decodes the named attributes against the spec. Duplicate keys
// were resolved first-wins at declaration time; each repeat still counts as
// one problem here.
func (r *Registry) decodeNamed(spec *Spec, d Declaration) (values map[string]any, problems []string) {
	values = make(map[string]any)
	for _, attr := range spec.Named {
		raw, ok := d.NamedRaw(attr.Name)
		if !ok {
			if attr.Required {
				problems = append(problems, fmt.Sprintf("required attribute '%s' is missing", attr.Name))
			}
			continue
		}
		decode := attr.Decode
		if decode == nil {
			decode = AsString
		}
		v, err := decode(raw, r.decoder)
		if err != nil {
			problems = append(problems, fmt.Sprintf("attribute '%s': %s", attr.Name, err))
			continue
		}
		values[attr.Name] = v
	}
	for _, dup := range d.Duplicates {
		problems = append(problems, fmt.Sprintf("duplicate attribute '%s'", dup))
	}
	return values, problems
}

// splitParts divides a directive body into its main body and separator
// parts, then verifies each separator's occurrence count against its
// [min, max] constraints. Separator markers are recognized only at the top
// nesting level of this body; lines belonging to nested directive bodies
// are skipped by tracking their closing fences.
func (r *Registry) splitParts(spec *Spec, body string) (main string, parts []Part, problems []string) {
	seps := make(map[string]Separator, len(spec.Separators))
	for _, s := range spec.Separators {
		seps[s.Name] = s
	}

	lines := strings.Split(body, "\n")
	type marker struct {
		line  int
		name  string
		attrs []Attribute
	}
	var markers []marker
	var fences []string

	for i, line := range lines {
		trimmed := text.TrimWs(line)
		if len(fences) > 0 {
			if trimmed == fences[len(fences)-1] {
				fences = fences[:len(fences)-1]
			} else if _, fence, opens := r.headerInfo(trimmed); opens {
				fences = append(fences, fence)
			}
			continue
		}
		if !strings.HasPrefix(trimmed, "@:") {
			continue
		}
		h, fence, opens := r.headerInfo(trimmed)
		if h.Name == "" {
			continue
		}
		if _, isSep := seps[h.Name]; isSep {
			markers = append(markers, marker{line: i, name: h.Name, attrs: h.Attrs})
			continue
		}
		if opens {
			fences = append(fences, fence)
		}
	}

	counts := make(map[string]int)
	if len(markers) == 0 {
		main = body
	} else {
		main = strings.Join(lines[:markers[0].line], "\n")
		for m, mk := range markers {
			end := len(lines)
			if m+1 < len(markers) {
				end = markers[m+1].line
			}
			counts[mk.name]++
			parts = append(parts, Part{
				Name:    mk.name,
				Attrs:   mk.attrs,
				Content: trimBlankLines(strings.Join(lines[mk.line+1:end], "\n")),
			})
		}
		main = trimBlankLines(main)
	}

	for _, s := range spec.Separators {
		actual := counts[s.Name]
		if actual < s.Min {
			problems = append(problems, fmt.Sprintf(
				"too few occurrences of separator directive '%s': expected min: %d, actual: %d",
				s.Name, s.Min, actual))
		}
		if s.Max > 0 && actual > s.Max {
			problems = append(problems, fmt.Sprintf(
				"too many occurrences of separator directive '%s': expected max: %d, actual: %d",
				s.Name, s.Max, actual))
		}
	}
	return main, parts, problems
}

// headerInfo parses a single line as a directive header: name, attribute
// sections, and an optional custom fence. opens reports whether the line
// opens a nested multi-line body (a registered directive with a body whose
// fence is not already on the line), in which case fence is its closing
// fence.
func (r *Registry) headerInfo(line string) (d Declaration, fence string, opens bool) {
	pos := text.NewPosition(line)
	if !pos.HasPrefix("@:") {
		return Declaration{}, "", false
	}
	cur := pos.Advance(2)
	nameRes := text.Name()(cur)
	if !nameRes.Ok() {
		return Declaration{}, "", false
	}
	d.Name = nameRes.Value
	d.Fence = DefaultFence
	cur = nameRes.Next
	if next, ok := r.parsePositional(&d, cur); ok {
		cur = next
	}
	cur = r.parseNamed(&d, cur)

	spec := r.specs[d.Name]
	if spec == nil || spec.Body == BodyNone {
		return d, "", false
	}
	rest := cur.Rest()
	// A fence already on the header line closes the occurrence inline, the
	// span form of a body-carrying directive. It opens no multi-line body.
	if strings.Contains(rest, DefaultFence) {
		return d, "", false
	}
	fence = DefaultFence
	if token := text.TrimWs(rest); token != "" &&
		len(token) <= maxFenceLen && !strings.ContainsAny(token, " \t") {
		fence = token
	}
	return d, fence, true
}
