package pretty

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yaklabco/treemark/pkg/ast"
)

// RenderTree renders a document tree as an indented outline, one node per
// line. Text content is quoted; element attributes appear in sorted key
// order so output is stable.
func (s *Styles) RenderTree(root ast.Node) string {
	var builder strings.Builder
	s.renderNode(&builder, root, "", true, true)
	return builder.String()
}

func (s *Styles) renderNode(builder *strings.Builder, n ast.Node, prefix string, last, isRoot bool) {
	if !isRoot {
		branch := "├─ "
		if last {
			branch = "└─ "
		}
		builder.WriteString(s.TreeBranch.Render(prefix + branch))
	}
	builder.WriteString(s.label(n))
	builder.WriteByte('\n')

	el, ok := n.(ast.Element)
	if !ok {
		return
	}
	childPrefix := prefix
	if !isRoot {
		if last {
			childPrefix += "   "
		} else {
			childPrefix += "│  "
		}
	}
	for i, c := range el.Children {
		s.renderNode(builder, c, childPrefix, i == len(el.Children)-1, false)
	}
}

func (s *Styles) label(n ast.Node) string {
	switch n := n.(type) {
	case ast.Text:
		return s.TextContent.Render(fmt.Sprintf("text %q", n.Content))
	case ast.Invalid:
		return s.InvalidNode.Render("invalid") + " " + s.Dim.Render(n.Message)
	case ast.Element:
		label := s.NodeName.Render(n.Name)
		for _, k := range sortedKeys(n.Attrs) {
			label += " " + s.AttrKey.Render(k+"=") + s.AttrValue.Render(fmt.Sprintf("%q", n.Attrs[k]))
		}
		return label
	default:
		return fmt.Sprintf("%T", n)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
