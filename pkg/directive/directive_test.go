package directive_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/directive"
	"github.com/yaklabco/treemark/pkg/inline"
	"github.com/yaklabco/treemark/pkg/text"
)

func mustRegistry(t *testing.T, specs ...*directive.Spec) *directive.Registry {
	t.Helper()
	reg, err := directive.NewRegistry(nil, specs...)
	require.NoError(t, err)
	return reg
}

// textBuild maps the first positional attribute to a text node.
func textBuild(c *directive.Context) (ast.Node, error) {
	return ast.Text{Content: c.StringArg(0)}, nil
}

func TestSpan_ConcreteScenario(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:       "dir",
		Positional: []directive.Attr{{Required: true}},
		Build:      textBuild,
	})
	engine := inline.NewEngine(inline.SpanParser{
		StartChars: []rune{'@'},
		Parse:      reg.Span(nil, nil),
	})

	nodes := engine.ParseInline("aa @:dir(foo) bb")
	require.Len(t, nodes, 3)
	assert.Equal(t, ast.Text{Content: "aa "}, nodes[0])
	assert.Equal(t, ast.Text{Content: "foo"}, nodes[1])
	assert.Equal(t, ast.Text{Content: " bb"}, nodes[2])
}

func TestSpan_ErrorAccumulation(t *testing.T) {
	t.Parallel()

	// Two required positional attributes and a required body, none present:
	// one combined failure listing all three, in declaration order.
	reg := mustRegistry(t, &directive.Spec{
		Name:       "dir",
		Positional: []directive.Attr{{Required: true}, {Required: true}},
		Body:       directive.BodyParsed,
		Build:      textBuild,
	})

	r := reg.Span(nil, nil)(text.NewPosition("@:dir bb"))
	require.True(t, r.Ok())

	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok, "expected invalid node, got %#v", r.Value)
	assert.Equal(t, "@:dir", inv.Source)

	msg := inv.Message
	p0 := strings.Index(msg, "required positional attribute 0 is missing")
	p1 := strings.Index(msg, "required positional attribute 1 is missing")
	pb := strings.Index(msg, "required body is missing")
	require.True(t, p0 >= 0 && p1 >= 0 && pb >= 0, "message %q", msg)
	assert.True(t, p0 < p1 && p1 < pb, "problems out of order in %q", msg)
}

func TestSpan_UnknownDirective(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t)
	r := reg.Span(nil, nil)(text.NewPosition("@:nope(x)"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Equal(t, "no directive registered with name: nope", inv.Message)
}

func TestSpan_OrphanedSeparator(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:       "select",
		Body:       directive.BodyRaw,
		Separators: []directive.Separator{{Name: "choice", Min: 0, Max: directive.Unbounded}},
		Build:      textBuild,
	})

	// A separator outside any enclosing directive of its family is an
	// orphan, distinct from "no directive registered".
	r := reg.Span(nil, nil)(text.NewPosition("@:choice"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Equal(t, "orphaned separator directive with name: choice", inv.Message)
}

func TestSpan_NamedAttributes(t *testing.T) {
	t.Parallel()

	var gotWidth int
	var gotAlt string
	reg := mustRegistry(t, &directive.Spec{
		Name: "image",
		Positional: []directive.Attr{
			{Required: true},
		},
		Named: []directive.NamedAttr{
			{Name: "alt"},
			{Name: "width", Decode: directive.AsInt},
		},
		Build: func(c *directive.Context) (ast.Node, error) {
			gotWidth = c.IntNamed("width", 0)
			gotAlt = c.StringNamed("alt")
			return ast.NewElement("image"), nil
		},
	})

	r := reg.Span(nil, nil)(text.NewPosition(`@:image(logo.png) { alt: "a logo", width: 120 }`))
	require.True(t, r.Ok())
	_, isInvalid := r.Value.(ast.Invalid)
	require.False(t, isInvalid, "unexpected invalid: %#v", r.Value)
	assert.Equal(t, 120, gotWidth)
	assert.Equal(t, "a logo", gotAlt)
}

func TestSpan_DuplicateNamedAttribute(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:  "style",
		Named: []directive.NamedAttr{{Name: "color"}},
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.Text{Content: c.StringNamed("color")}, nil
		},
	})

	r := reg.Span(nil, nil)(text.NewPosition("@:style { color: red, color: blue }"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Contains(t, inv.Message, "duplicate attribute 'color'")
}

func TestSpan_UnclosedAttributeObject(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:  "style",
		Named: []directive.NamedAttr{{Name: "color"}},
		Build: textBuild,
	})

	r := reg.Span(nil, nil)(text.NewPosition("@:style { color: red"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Contains(t, inv.Message, "missing '}'")
}

func TestSpan_MalformedAttributeValue(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:  "box",
		Named: []directive.NamedAttr{{Name: "width", Required: true, Decode: directive.AsInt}},
		Build: textBuild,
	})

	r := reg.Span(nil, nil)(text.NewPosition("@:box { width: wide }"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Contains(t, inv.Message, "attribute 'width'")
}

func TestSpan_BodyParsing(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name: "em",
		Body: directive.BodyParsed,
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.Element{Name: "emphasis", Children: c.Body()}, nil
		},
	})

	r := reg.Span(nil, nil)(text.NewPosition("@:em some text @:@ rest"))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	assert.Equal(t, "emphasis", el.Name)
	require.Len(t, el.Children, 1)
	assert.Equal(t, ast.Text{Content: "some text"}, el.Children[0])
	assert.Equal(t, " rest", r.Next.Rest())
}

func TestSpan_QuotedPositionalEscapes(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:       "dir",
		Positional: []directive.Attr{{Required: true}, {Required: true}},
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.Text{Content: c.StringArg(0) + "|" + c.StringArg(1)}, nil
		},
	})

	r := reg.Span(nil, nil)(text.NewPosition(`@:dir("a, \"b\"", plain value)`))
	require.True(t, r.Ok())
	assert.Equal(t, ast.Text{Content: `a, "b"|plain value`}, r.Value)
}

func TestBlock_BodyAndFence(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name: "callout",
		Positional: []directive.Attr{
			{Required: true},
		},
		Body: directive.BodyRaw,
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.NewElement("callout", ast.Text{Content: c.RawBody()}), nil
		},
	})

	src := "@:callout(warning)\n\nbe careful\nwith this\n\n@:@\nafter"
	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	require.Len(t, el.Children, 1)
	// A single leading/trailing blank line is trimmed from the body.
	assert.Equal(t, ast.Text{Content: "be careful\nwith this"}, el.Children[0])
	assert.Equal(t, "after", r.Next.Rest())
}

func TestBlock_CustomFence(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name: "code",
		Body: directive.BodyRaw,
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.NewElement("code", ast.Text{Content: c.RawBody()}), nil
		},
	})

	src := "@:code ^^^\nliteral @:@ stays\n^^^\n"
	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	assert.Equal(t, ast.Text{Content: "literal @:@ stays"}, el.Children[0])
}

func TestBlock_UnterminatedBody(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:  "callout",
		Body:  directive.BodyRaw,
		Build: textBuild,
	})

	r := reg.Block(nil, nil)(text.NewPosition("@:callout\nnever fenced"))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok)
	assert.Contains(t, inv.Message, "required body is missing")
}

func TestBlock_SeparatorParts(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name:       "select",
		Positional: []directive.Attr{{Required: true}},
		Body:       directive.BodyRaw,
		Separators: []directive.Separator{
			{Name: "choice", Min: 2, Max: directive.Unbounded},
		},
		Build: func(c *directive.Context) (ast.Node, error) {
			children := []ast.Node{}
			for _, p := range c.Parts() {
				var label string
				if len(p.Attrs) > 0 {
					label = p.Attrs[0].Raw
				}
				children = append(children, ast.NewElement("choice-"+label,
					ast.Text{Content: p.Content}))
			}
			return ast.Element{Name: "select", Children: children}, nil
		},
	})

	src := strings.Join([]string{
		"@:select(platform)",
		"@:choice(jvm)",
		"jvm content",
		"@:choice(js)",
		"js content",
		"@:@",
	}, "\n")

	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	require.Len(t, el.Children, 2)
	assert.Equal(t, ast.NewElement("choice-jvm", ast.Text{Content: "jvm content"}), el.Children[0])
	assert.Equal(t, ast.NewElement("choice-js", ast.Text{Content: "js content"}), el.Children[1])
}

func TestBlock_SeparatorCountViolations(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t, &directive.Spec{
		Name: "combo",
		Body: directive.BodyRaw,
		Separators: []directive.Separator{
			{Name: "foo", Min: 1, Max: directive.Unbounded},
			{Name: "bar", Min: 0, Max: 1},
		},
		Build: textBuild,
	})

	src := strings.Join([]string{
		"@:combo",
		"main",
		"@:bar",
		"one",
		"@:bar",
		"two",
		"@:@",
	}, "\n")

	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	inv, ok := r.Value.(ast.Invalid)
	require.True(t, ok, "got %#v", r.Value)
	assert.Contains(t, inv.Message,
		"too few occurrences of separator directive 'foo': expected min: 1, actual: 0")
	assert.Contains(t, inv.Message,
		"too many occurrences of separator directive 'bar': expected max: 1, actual: 2")
}

func TestBlock_SeparatorZeroValueUnbounded(t *testing.T) {
	t.Parallel()

	// A separator registered with only a name carries no occurrence limit.
	var parts int
	reg := mustRegistry(t, &directive.Spec{
		Name:       "tabs",
		Body:       directive.BodyRaw,
		Separators: []directive.Separator{{Name: "tab"}},
		Build: func(c *directive.Context) (ast.Node, error) {
			parts = len(c.Parts())
			return ast.NewElement("tabs"), nil
		},
	})

	src := strings.Join([]string{
		"@:tabs",
		"@:tab",
		"one",
		"@:tab",
		"two",
		"@:tab",
		"three",
		"@:@",
	}, "\n")

	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	_, isInvalid := r.Value.(ast.Invalid)
	require.False(t, isInvalid, "got %#v", r.Value)
	assert.Equal(t, 3, parts)
}

func TestBlock_SpanBodyClosedOnBodyLine(t *testing.T) {
	t.Parallel()

	// A body-carrying span directive opened and closed on a single body line
	// must not swallow the outer fence.
	reg := mustRegistry(t, &directive.Spec{
		Name: "note",
		Body: directive.BodyRaw,
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.NewElement("note", ast.Text{Content: c.RawBody()}), nil
		},
	}, &directive.Spec{
		Name: "em",
		Body: directive.BodyParsed,
		Build: func(c *directive.Context) (ast.Node, error) {
			return ast.Element{Name: "emphasis", Children: c.Body()}, nil
		},
	})

	src := "@:note\n@:em word @:@ and more\n@:@\nafter"
	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	require.Len(t, el.Children, 1)
	assert.Equal(t, ast.Text{Content: "@:em word @:@ and more"}, el.Children[0])
	assert.Equal(t, "after", r.Next.Rest())
}

func TestBlock_SeparatorsSkipNestedBodies(t *testing.T) {
	t.Parallel()

	var parts int
	reg := mustRegistry(t, &directive.Spec{
		Name:       "outer",
		Body:       directive.BodyRaw,
		Separators: []directive.Separator{{Name: "part", Min: 1, Max: directive.Unbounded}},
		Build: func(c *directive.Context) (ast.Node, error) {
			parts = len(c.Parts())
			return ast.NewElement("outer"), nil
		},
	}, &directive.Spec{
		Name:  "inner",
		Body:  directive.BodyRaw,
		Build: textBuild,
	})

	// The @:part inside the nested @:inner body must not count as a
	// separator of @:outer.
	src := strings.Join([]string{
		"@:outer",
		"@:part",
		"first",
		"@:inner",
		"@:part",
		"@:@",
		"@:@",
	}, "\n")

	r := reg.Block(nil, nil)(text.NewPosition(src))
	require.True(t, r.Ok())
	_, isInvalid := r.Value.(ast.Invalid)
	require.False(t, isInvalid, "got %#v", r.Value)
	assert.Equal(t, 1, parts)
}

func TestTemplate_SpanFormBody(t *testing.T) {
	t.Parallel()

	// Template directives parse exactly like span directives but carry the
	// template family through to the builder.
	var fam directive.Family
	reg := mustRegistry(t, &directive.Spec{
		Name: "greet",
		Body: directive.BodyParsed,
		Build: func(c *directive.Context) (ast.Node, error) {
			fam = c.Family()
			return ast.Element{Name: "greeting", Children: c.Body()}, nil
		},
	})

	r := reg.Template(nil, nil)(text.NewPosition("@:greet hello @:@ tail"))
	require.True(t, r.Ok())
	el, ok := r.Value.(ast.Element)
	require.True(t, ok, "got %#v", r.Value)
	assert.Equal(t, directive.FamilyTemplate, fam)
	assert.Equal(t, []ast.Node{ast.Text{Content: "hello"}}, el.Children)
	assert.Equal(t, " tail", r.Next.Rest())
}

func TestNewRegistry_Validation(t *testing.T) {
	t.Parallel()

	t.Run("duplicate name", func(t *testing.T) {
		t.Parallel()
		_, err := directive.NewRegistry(nil,
			&directive.Spec{Name: "a", Build: textBuild},
			&directive.Spec{Name: "a", Build: textBuild},
		)
		assert.Error(t, err)
	})

	t.Run("separator without body", func(t *testing.T) {
		t.Parallel()
		_, err := directive.NewRegistry(nil, &directive.Spec{
			Name:       "a",
			Separators: []directive.Separator{{Name: "s"}},
			Build:      textBuild,
		})
		assert.Error(t, err)
	})

	t.Run("missing build", func(t *testing.T) {
		t.Parallel()
		_, err := directive.NewRegistry(nil, &directive.Spec{Name: "a"})
		assert.Error(t, err)
	})
}
