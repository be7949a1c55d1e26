// Package std provides the built-in directives shipped with the reference
// markup format: callout, image, select/choice, code, and markdown. Host
// formats opt in by passing Specs() to their registry; none of these are
// required by the parsing core.
package std

import (
	"fmt"
	"strconv"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/directive"
	"github.com/yaklabco/treemark/pkg/langdetect"
)

// Specs returns the specifications of all built-in directives.
func Specs() []*directive.Spec {
	return []*directive.Spec{
		Callout(),
		Image(),
		Select(),
		Code(),
		Markdown(),
	}
}

// Callout specifies `@:callout(style) ... @:@`: a styled admonition box
// whose body is parsed as markup. The style defaults to "info".
func Callout() *directive.Spec {
	return &directive.Spec{
		Name:       "callout",
		Positional: []directive.Attr{{}},
		Body:       directive.BodyParsed,
		Build: func(c *directive.Context) (ast.Node, error) {
			style := c.StringArg(0)
			if style == "" {
				style = "info"
			}
			return ast.Element{
				Name:     "callout",
				Attrs:    map[string]string{"style": style},
				Children: c.Body(),
			}, nil
		},
	}
}

// Image specifies `@:image(src) { alt: ..., width: ... }`: a body-less
// span element referencing an image by source path or URL.
func Image() *directive.Spec {
	return &directive.Spec{
		Name:       "image",
		Positional: []directive.Attr{{Required: true}},
		Named: []directive.NamedAttr{
			{Name: "alt"},
			{Name: "width", Decode: directive.AsInt},
			{Name: "title"},
		},
		Build: func(c *directive.Context) (ast.Node, error) {
			attrs := map[string]string{"src": c.StringArg(0)}
			if alt := c.StringNamed("alt"); alt != "" {
				attrs["alt"] = alt
			}
			if title := c.StringNamed("title"); title != "" {
				attrs["title"] = title
			}
			if w := c.IntNamed("width", 0); w > 0 {
				attrs["width"] = strconv.Itoa(w)
			}
			return ast.Element{Name: "image", Attrs: attrs}, nil
		},
	}
}

// Select specifies `@:select(name)` with at least two `@:choice(label)`
// separator parts. Each part's content is parsed as markup; the select
// element carries one choice child per part.
func Select() *directive.Spec {
	return &directive.Spec{
		Name:       "select",
		Positional: []directive.Attr{{Required: true}},
		Body:       directive.BodyRaw,
		Separators: []directive.Separator{
			{Name: "choice", Min: 2, Max: directive.Unbounded},
		},
		Build: func(c *directive.Context) (ast.Node, error) {
			sel := ast.Element{
				Name:  "select",
				Attrs: map[string]string{"name": c.StringArg(0)},
			}
			for _, part := range c.Parts() {
				label := ""
				for _, a := range part.Attrs {
					if a.Name == "" {
						label = a.Raw
						break
					}
				}
				if label == "" {
					return nil, fmt.Errorf("choice in select '%s' has no label", c.StringArg(0))
				}
				sel.Children = append(sel.Children, ast.Element{
					Name:     "choice",
					Attrs:    map[string]string{"label": label},
					Children: c.Parse(part.Content),
				})
			}
			return sel, nil
		},
	}
}

// Code specifies `@:code(lang) ... @:@`: a verbatim code block. The body is
// never parsed as markup. An explicit language tag is normalized; without
// one the language is detected from the body content.
func Code() *directive.Spec {
	return &directive.Spec{
		Name:       "code",
		Positional: []directive.Attr{{}},
		Body:       directive.BodyRaw,
		Build: func(c *directive.Context) (ast.Node, error) {
			lang := c.StringArg(0)
			if lang != "" {
				lang = langdetect.Normalize(lang)
			} else {
				lang = langdetect.Detect([]byte(c.RawBody()))
			}
			return ast.Element{
				Name:     "code",
				Attrs:    map[string]string{"lang": lang},
				Children: []ast.Node{ast.Text{Content: c.RawBody()}},
			}, nil
		},
	}
}
