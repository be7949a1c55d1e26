package ast_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/treemark/pkg/ast"
)

func TestAppendText_MergesTrailingText(t *testing.T) {
	t.Parallel()

	nodes := ast.AppendText(nil, "a")
	nodes = ast.AppendText(nodes, "b")
	require.Len(t, nodes, 1)
	assert.Equal(t, ast.Text{Content: "ab"}, nodes[0])
}

func TestAppendText_DropsEmpty(t *testing.T) {
	t.Parallel()

	nodes := ast.AppendText(nil, "")
	assert.Empty(t, nodes)
}

func TestAppendText_NoMergeAcrossElement(t *testing.T) {
	t.Parallel()

	nodes := ast.AppendText(nil, "a")
	nodes = ast.Append(nodes, ast.NewElement("emphasis"))
	nodes = ast.AppendText(nodes, "b")
	require.Len(t, nodes, 3)
	assert.Equal(t, ast.Text{Content: "a"}, nodes[0])
	assert.Equal(t, ast.Text{Content: "b"}, nodes[2])
}

func TestAppend_SkipsNilAndEmptyText(t *testing.T) {
	t.Parallel()

	nodes := ast.Append(nil, nil)
	nodes = ast.Append(nodes, ast.Text{})
	assert.Empty(t, nodes)

	nodes = ast.Append(nodes, ast.Text{Content: "x"})
	require.Len(t, nodes, 1)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	n := ast.NewElement("paragraph",
		ast.Text{Content: "see "},
		ast.NewElement("emphasis", ast.Text{Content: "this"}),
		ast.Invalid{Message: "bad", Source: "@:x"},
	)
	assert.Equal(t, "see this@:x", ast.PlainText(n))
}

func TestWalk_StopsOnError(t *testing.T) {
	t.Parallel()

	tree := ast.NewElement("document",
		ast.NewElement("paragraph", ast.Text{Content: "a"}),
		ast.NewElement("paragraph", ast.Text{Content: "b"}),
	)

	stop := errors.New("stop")
	visited := 0
	err := ast.Walk(tree, func(n ast.Node) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestInvalids(t *testing.T) {
	t.Parallel()

	tree := ast.NewElement("document",
		ast.Invalid{Message: "first", Source: "@:a"},
		ast.NewElement("paragraph", ast.Invalid{Message: "second", Source: "@:b"}),
	)
	invs := ast.Invalids(tree)
	require.Len(t, invs, 2)
	assert.Equal(t, "first", invs[0].Message)
	assert.Equal(t, "second", invs[1].Message)
}
