package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/treemark/internal/ui/pretty"
	"github.com/yaklabco/treemark/pkg/ast"
)

func TestCollectDiagnostics(t *testing.T) {
	t.Parallel()

	src := "first line\nbad @:nope here\n"
	doc := ast.Element{Name: "document", Children: []ast.Node{
		ast.Element{Name: "paragraph", Children: []ast.Node{
			ast.Text{Content: "first line\nbad "},
			ast.Invalid{Message: "no directive registered with name: nope", Source: "@:nope"},
			ast.Text{Content: " here"},
		}},
	}}

	diags := pretty.CollectDiagnostics("doc.txt", src, doc)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "doc.txt", d.Path)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 5, d.Column)
	assert.Equal(t, "bad @:nope here", d.SourceLine)
	assert.Contains(t, d.Message, "nope")
}

func TestCollectDiagnostics_SourceNotFound(t *testing.T) {
	t.Parallel()

	doc := ast.Invalid{Message: "broken", Source: "@:gone"}
	diags := pretty.CollectDiagnostics("doc.txt", "unrelated text", doc)
	require.Len(t, diags, 1)
	assert.Zero(t, diags[0].Line)
	assert.Zero(t, diags[0].Column)
}

func TestFormatDiagnostic(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	d := pretty.Diagnostic{
		Path:       "doc.txt",
		Line:       2,
		Column:     5,
		Message:    "invalid directive 'x': required body is missing",
		SourceLine: "bad @:x here",
	}

	out := s.FormatDiagnostic(d, true)
	assert.Contains(t, out, "doc.txt:2:5")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "required body is missing")
	assert.Contains(t, out, "bad @:x here")
	assert.Contains(t, out, "^")
}

func TestFormatFileHeader(t *testing.T) {
	t.Parallel()

	s := pretty.NewStyles(false)
	assert.Equal(t, "doc.txt (3 issues)", s.FormatFileHeader("doc.txt", 3))
	assert.Equal(t, "clean.txt", s.FormatFileHeader("clean.txt", 0))
}
