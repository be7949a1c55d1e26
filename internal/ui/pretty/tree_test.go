package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/treemark/internal/ui/pretty"
	"github.com/yaklabco/treemark/pkg/ast"
)

func TestRenderTree(t *testing.T) {
	t.Parallel()

	doc := ast.Element{Name: "document", Children: []ast.Node{
		ast.Element{Name: "paragraph", Children: []ast.Node{
			ast.Text{Content: "hello "},
			ast.Element{
				Name:  "image",
				Attrs: map[string]string{"src": "a.png", "alt": "pic"},
			},
		}},
		ast.Invalid{Message: "bad directive", Source: "@:x"},
	}}

	out := pretty.NewStyles(false).RenderTree(doc)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Equal(t, "document", lines[0])
	assert.Contains(t, out, `text "hello "`)
	// Attributes are sorted by key.
	assert.Contains(t, out, `image alt="pic" src="a.png"`)
	assert.Contains(t, out, "invalid bad directive")
	// Last child uses the closing branch.
	assert.Contains(t, out, "└─ ")
}
