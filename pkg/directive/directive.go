// Package directive implements the declaration parsing, attribute/body
// validation, and separator handling shared by every block, span, and
// template directive. Directives are registered once in an immutable
// Registry; parsing an occurrence validates it against its Spec,
// accumulating every problem before rendering a single invalid-node
// placeholder. Bad directive usage never makes a document fail to parse.
package directive

import (
	"fmt"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/config"
	"github.com/yaklabco/treemark/pkg/text"
)

// DefaultFence is the default token terminating a directive body.
const DefaultFence = "@:@"

// Family distinguishes the three host constructs sharing the declaration
// grammar. The grammar is identical; only the body-parsing strategy and the
// custom-fence capability differ.
type Family int

const (
	// FamilyBlock directives stand on their own lines; their bodies run to
	// a fence line and they may declare a custom fence.
	FamilyBlock Family = iota

	// FamilySpan directives occur inside inline content.
	FamilySpan

	// FamilyTemplate directives occur inside template text. They parse like
	// span directives but carry the template context type.
	FamilyTemplate
)

// BodyMode states whether and how a directive consumes a body.
type BodyMode int

const (
	// BodyNone: the construct ends at the declaration.
	BodyNone BodyMode = iota

	// BodyParsed: the body is re-parsed as markup; Context.Body holds the
	// resulting nodes.
	BodyParsed

	// BodyRaw: the body is handed to the builder as raw source text.
	BodyRaw
)

// DecodeFunc decodes a raw attribute source string into a typed value using
// the registry's configured Decoder.
type DecodeFunc func(raw string, dec config.Decoder) (any, error)

// AsString decodes an attribute as a plain string (YAML scalar rules, so
// quoting is optional).
func AsString(raw string, dec config.Decoder) (any, error) {
	var s string
	if err := dec.Decode(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// AsInt decodes an attribute as an integer.
func AsInt(raw string, dec config.Decoder) (any, error) {
	var n int
	if err := dec.Decode(raw, &n); err != nil {
		return nil, err
	}
	return n, nil
}

// AsBool decodes an attribute as a boolean.
func AsBool(raw string, dec config.Decoder) (any, error) {
	var b bool
	if err := dec.Decode(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// Attr specifies one positional attribute. Position is implied by order in
// Spec.Positional.
type Attr struct {
	Required bool
	Decode   DecodeFunc // nil: the raw (already unquoted) string
}

// NamedAttr specifies one named attribute from the `{...}` section.
type NamedAttr struct {
	Name     string
	Required bool
	Decode   DecodeFunc // nil: AsString
}

// Separator specifies a named sub-marker legal only inside this directive's
// body, with occurrence constraints. Only a positive Max bounds the
// occurrence count: the zero value means unbounded, so Separator{Name: "tab"}
// accepts any number of occurrences.
type Separator struct {
	Name string
	Min  int
	Max  int
}

// Unbounded is the Max value for separators with no upper limit. It is the
// zero value; the constant exists for readability at registration sites.
const Unbounded = 0

// BuildFunc receives the fully decoded directive occurrence and builds its
// output node. A returned error becomes an invalid-node placeholder.
type BuildFunc func(c *Context) (ast.Node, error)

// Spec is the registered specification of one directive.
type Spec struct {
	Name       string
	Positional []Attr
	Named      []NamedAttr
	Body       BodyMode
	Separators []Separator
	Build      BuildFunc
}

// RecurseFunc re-parses body text as markup, one nesting level deeper than
// the position the body was extracted from.
type RecurseFunc func(body string, at text.Position) ([]ast.Node, error)

// Part is one separator-delimited section of a directive body.
type Part struct {
	// Name is the separator name that introduced this part.
	Name string

	// Attrs holds the separator occurrence's own attributes, positional
	// entries first.
	Attrs []Attribute

	// Content is the raw source of the part, up to the next separator or
	// the end of the parent body.
	Content string
}

// Attribute is one attribute occurrence: positional (empty Name) or named.
type Attribute struct {
	Name string
	Raw  string
}

// Context carries everything a BuildFunc may request: decoded attributes,
// the body in both raw and parsed form, separator parts, the active parser
// callback, and the opaque document cursor threaded through from the caller.
type Context struct {
	name       string
	family     Family
	source     string
	positional []any
	named      map[string]any
	rawBody    string
	bodyNodes  []ast.Node
	parts      []Part
	cursor     any
	recurse    RecurseFunc
	at         text.Position
}

// Name returns the directive name of this occurrence.
func (c *Context) Name() string { return c.name }

// Family returns the construct family of this occurrence.
func (c *Context) Family() Family { return c.family }

// Source returns the original source text of the declaration.
func (c *Context) Source() string { return c.source }

// Arg returns the decoded positional attribute at index i, or nil when
// absent.
func (c *Context) Arg(i int) any {
	if i < 0 || i >= len(c.positional) {
		return nil
	}
	return c.positional[i]
}

// StringArg returns the positional attribute at index i as a string.
func (c *Context) StringArg(i int) string {
	s, _ := c.Arg(i).(string)
	return s
}

// Named returns the decoded named attribute, if present.
func (c *Context) Named(name string) (any, bool) {
	v, ok := c.named[name]
	return v, ok
}

// StringNamed returns the named attribute as a string, or "" when absent.
func (c *Context) StringNamed(name string) string {
	s, _ := c.named[name].(string)
	return s
}

// IntNamed returns the named attribute as an int, or def when absent.
func (c *Context) IntNamed(name string, def int) int {
	if v, ok := c.named[name]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return def
}

// RawBody returns the body source text.
func (c *Context) RawBody() string { return c.rawBody }

// Body returns the body parsed as markup (BodyParsed mode).
func (c *Context) Body() []ast.Node { return c.bodyNodes }

// Parts returns the separator-delimited sections of the body, in order.
func (c *Context) Parts() []Part { return c.parts }

// Cursor returns the opaque document cursor supplied by the caller, or nil.
// The engine never inspects it, it only threads it through.
func (c *Context) Cursor() any { return c.cursor }

// Parse re-parses arbitrary text as markup at one nesting level deeper.
// Exceeding the nesting limit yields a single invalid node rather than an
// error, preserving the no-fail guarantee inside builders.
func (c *Context) Parse(src string) []ast.Node {
	if c.recurse == nil {
		return []ast.Node{ast.Text{Content: src}}
	}
	nodes, err := c.recurse(src, c.at)
	if err != nil {
		return []ast.Node{ast.Invalid{Message: err.Error(), Source: src}}
	}
	return nodes
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("directive spec has no name")
	}
	if s.Build == nil {
		return fmt.Errorf("directive %q has no build function", s.Name)
	}
	seen := map[string]bool{}
	for _, sep := range s.Separators {
		if sep.Name == "" {
			return fmt.Errorf("directive %q has a separator with no name", s.Name)
		}
		if seen[sep.Name] {
			return fmt.Errorf("directive %q registers separator %q twice", s.Name, sep.Name)
		}
		seen[sep.Name] = true
		if sep.Max > 0 && sep.Max < sep.Min {
			return fmt.Errorf("directive %q separator %q: max %d below min %d",
				s.Name, sep.Name, sep.Max, sep.Min)
		}
		if s.Body == BodyNone {
			return fmt.Errorf("directive %q registers separators but has no body", s.Name)
		}
	}
	return nil
}
