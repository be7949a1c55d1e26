package directive

import (
	"fmt"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/config"
	"github.com/yaklabco/treemark/pkg/text"
)

// Registry is the immutable mapping of directive names to specifications.
// It is built once at parser-construction time and passed down; there is no
// global registration. A Registry is safe for concurrent use.
type Registry struct {
	decoder   config.Decoder
	specs     map[string]*Spec
	sepOwners map[string][]string
}

// NewRegistry builds a registry over the given specs. Registering the same
// name twice, or a name that collides with another directive's separator,
// is an error.
func NewRegistry(decoder config.Decoder, specs ...*Spec) (*Registry, error) {
	if decoder == nil {
		decoder = config.YAMLDecoder{}
	}
	r := &Registry{
		decoder:   decoder,
		specs:     make(map[string]*Spec, len(specs)),
		sepOwners: make(map[string][]string),
	}
	for _, s := range specs {
		if err := s.validate(); err != nil {
			return nil, err
		}
		if _, exists := r.specs[s.Name]; exists {
			return nil, fmt.Errorf("directive %q registered twice", s.Name)
		}
		r.specs[s.Name] = s
	}
	for _, s := range specs {
		for _, sep := range s.Separators {
			if _, exists := r.specs[sep.Name]; exists {
				return nil, fmt.Errorf("separator %q of directive %q collides with a directive name",
					sep.Name, s.Name)
			}
			r.sepOwners[sep.Name] = append(r.sepOwners[sep.Name], s.Name)
		}
	}
	return r, nil
}

// Spec returns the registered spec for name, if any.
func (r *Registry) Spec(name string) (*Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all registered directive names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.specs))
	for name := range r.specs {
		out = append(out, name)
	}
	return out
}

// Span returns the parser for span-form directive occurrences. recurse is
// the active markup parser callback used for parsed bodies and for
// Context.Parse; cursor is the opaque document cursor threaded through to
// builders. The parser succeeds with an Invalid node for every validation
// failure; it only fails when the input is not a directive occurrence at
// all.
func (r *Registry) Span(recurse RecurseFunc, cursor any) text.Parser[ast.Node] {
	return r.occurrence(FamilySpan, recurse, cursor)
}

// Block returns the parser for block-form directive occurrences, which own
// their header line, may declare a custom fence, and consume body lines
// through the fence line.
func (r *Registry) Block(recurse RecurseFunc, cursor any) text.Parser[ast.Node] {
	return r.occurrence(FamilyBlock, recurse, cursor)
}

// Template returns the parser for template-form directive occurrences.
func (r *Registry) Template(recurse RecurseFunc, cursor any) text.Parser[ast.Node] {
	return r.occurrence(FamilyTemplate, recurse, cursor)
}

func (r *Registry) occurrence(fam Family, recurse RecurseFunc, cursor any) text.Parser[ast.Node] {
	decl := r.declaration(fam)
	return func(pos text.Position) text.Result[ast.Node] {
		res := decl(pos)
		if !res.Ok() {
			return text.FailWith[ast.Node](res.Err)
		}
		return text.Succeed(r.evaluate(res.Value, fam, recurse, cursor, pos), res.Next)
	}
}
