package std

import (
	"strconv"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/yaklabco/treemark/pkg/ast"
	"github.com/yaklabco/treemark/pkg/directive"
)

// Markdown specifies `@:markdown ... @:@`: a raw body parsed as GitHub
// Flavored Markdown and embedded in the document tree. The body never
// passes through the markup span engine, so Markdown syntax and directive
// syntax cannot collide inside it.
func Markdown() *directive.Spec {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return &directive.Spec{
		Name: "markdown",
		Body: directive.BodyRaw,
		Build: func(c *directive.Context) (ast.Node, error) {
			content := []byte(c.RawBody())
			doc := md.Parser().Parse(gmtext.NewReader(content))
			m := &mdMapper{content: content}
			return ast.Element{
				Name:     "markdown",
				Children: m.children(doc),
			}, nil
		},
	}
}

// mdMapper converts a goldmark AST into the document tree's node types.
type mdMapper struct {
	content []byte
}

func (m *mdMapper) children(parent gmast.Node) []ast.Node {
	var out []ast.Node
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		out = ast.Append(out, m.node(child))
	}
	return out
}

// node maps a single goldmark node. Unknown node kinds flatten to their
// children so no content is silently dropped.
func (m *mdMapper) node(n gmast.Node) ast.Node {
	switch gn := n.(type) {
	case *gmast.Heading:
		return ast.Element{
			Name:     "heading",
			Attrs:    map[string]string{"level": strconv.Itoa(gn.Level)},
			Children: m.children(n),
		}
	case *gmast.Paragraph:
		return ast.Element{Name: "paragraph", Children: m.children(n)}
	case *gmast.Blockquote:
		return ast.Element{Name: "blockquote", Children: m.children(n)}
	case *gmast.List:
		attrs := map[string]string{}
		if gn.IsOrdered() {
			attrs["ordered"] = "true"
			attrs["start"] = strconv.Itoa(gn.Start)
		}
		return ast.Element{Name: "list", Attrs: attrs, Children: m.children(n)}
	case *gmast.ListItem:
		return ast.Element{Name: "listItem", Children: m.children(n)}
	case *gmast.FencedCodeBlock:
		lang := string(gn.Language(m.content))
		return ast.Element{
			Name:     "code",
			Attrs:    map[string]string{"lang": lang},
			Children: []ast.Node{ast.Text{Content: m.lines(n)}},
		}
	case *gmast.CodeBlock:
		return ast.Element{
			Name:     "code",
			Attrs:    map[string]string{"lang": ""},
			Children: []ast.Node{ast.Text{Content: m.lines(n)}},
		}
	case *gmast.ThematicBreak:
		return ast.Element{Name: "rule"}
	case *gmast.Emphasis:
		name := "emphasis"
		if gn.Level >= 2 {
			name = "strong"
		}
		return ast.Element{Name: name, Children: m.children(n)}
	case *gmast.CodeSpan:
		return ast.Element{
			Name:     "codeSpan",
			Children: []ast.Node{ast.Text{Content: m.segments(n)}},
		}
	case *gmast.Link:
		return ast.Element{
			Name:     "link",
			Attrs:    map[string]string{"target": string(gn.Destination)},
			Children: m.children(n),
		}
	case *gmast.Image:
		return ast.Element{
			Name:  "image",
			Attrs: map[string]string{"src": string(gn.Destination)},
		}
	case *gmast.AutoLink:
		url := string(gn.URL(m.content))
		return ast.Element{
			Name:     "link",
			Attrs:    map[string]string{"target": url},
			Children: []ast.Node{ast.Text{Content: url}},
		}
	case *gmast.Text:
		content := string(gn.Segment.Value(m.content))
		if gn.SoftLineBreak() || gn.HardLineBreak() {
			content += "\n"
		}
		return ast.Text{Content: content}
	case *gmast.String:
		return ast.Text{Content: string(gn.Value)}
	case *east.Strikethrough:
		return ast.Element{Name: "strikethrough", Children: m.children(n)}
	case *east.Table:
		return ast.Element{Name: "table", Children: m.children(n)}
	case *east.TableHeader:
		return ast.Element{Name: "tableHeader", Children: m.children(n)}
	case *east.TableRow:
		return ast.Element{Name: "tableRow", Children: m.children(n)}
	case *east.TableCell:
		return ast.Element{Name: "tableCell", Children: m.children(n)}
	default:
		kids := m.children(n)
		if len(kids) == 1 {
			return kids[0]
		}
		return ast.Element{Name: "span", Children: kids}
	}
}

// lines joins the line segments of a block node.
func (m *mdMapper) lines(n gmast.Node) string {
	var out []byte
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		out = append(out, seg.Value(m.content)...)
	}
	return string(out)
}

// segments joins the child text segments of an inline node.
func (m *mdMapper) segments(n gmast.Node) string {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			out = append(out, t.Segment.Value(m.content)...)
		}
	}
	return string(out)
}
