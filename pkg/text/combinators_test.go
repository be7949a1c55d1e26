package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/treemark/pkg/text"
)

func TestLit(t *testing.T) {
	t.Parallel()

	r := text.Lit("@:")(text.NewPosition("@:name"))
	require.True(t, r.Ok())
	assert.Equal(t, 2, r.Next.Offset())

	r = text.Lit("@:")(text.NewPosition("name"))
	assert.False(t, r.Ok())
}

func TestFirst_FurthestFailure(t *testing.T) {
	t.Parallel()

	// Branch one fails immediately; branch two consumes "ab" before failing.
	// The combined failure must report the deeper branch.
	shallow := text.Lit("xy")
	deep := text.Then(text.Lit("ab"), text.Lit("zz"))

	r := text.First(shallow, deep)(text.NewPosition("abcd"))
	require.False(t, r.Ok())
	assert.Equal(t, 2, r.Err.MaxOffset)
	assert.Contains(t, r.Err.Message, `"zz"`)
}

func TestFirst_OrderedAlternation(t *testing.T) {
	t.Parallel()

	p := text.First(text.Lit("aa"), text.Lit("a"))
	r := p(text.NewPosition("aab"))
	require.True(t, r.Ok())
	assert.Equal(t, "aa", r.Value)
}

func TestRep_TerminatesOnZeroWidthSuccess(t *testing.T) {
	t.Parallel()

	// A parser that succeeds without consuming must not loop forever inside
	// an unbounded repetition.
	zeroWidth := func(pos text.Position) text.Result[string] {
		return text.Succeed("", pos)
	}

	r := text.Rep(zeroWidth)(text.NewPosition("anything"))
	require.True(t, r.Ok())
	assert.Empty(t, r.Value)
	assert.Equal(t, 0, r.Next.Offset())
}

func TestRep_CollectsUntilFailure(t *testing.T) {
	t.Parallel()

	r := text.Rep(text.Lit("ab"))(text.NewPosition("ababac"))
	require.True(t, r.Ok())
	assert.Equal(t, []string{"ab", "ab"}, r.Value)
	assert.Equal(t, 4, r.Next.Offset())
}

func TestRepMin(t *testing.T) {
	t.Parallel()

	r := text.RepMin(text.Lit("x"), 2)(text.NewPosition("xyy"))
	require.False(t, r.Ok())
	assert.Contains(t, r.Err.Message, "at least 2")
}

func TestOptional(t *testing.T) {
	t.Parallel()

	p := text.Optional(text.Lit("!"))
	r := p(text.NewPosition("!a"))
	require.True(t, r.Ok())
	assert.True(t, r.Value.Set)

	r = p(text.NewPosition("a"))
	require.True(t, r.Ok())
	assert.False(t, r.Value.Set)
	assert.Equal(t, 0, r.Next.Offset())
}

func TestNestedLimit(t *testing.T) {
	t.Parallel()

	pos := text.NewPosition("x")
	ok := true
	for i := 0; i <= text.MaxNesting; i++ {
		pos, ok = pos.Nested()
		if !ok {
			break
		}
	}
	assert.False(t, ok, "nesting beyond MaxNesting must be refused")
}

func TestPositionImmutability(t *testing.T) {
	t.Parallel()

	pos := text.NewPosition("hello")
	next := pos.Advance(3)
	assert.Equal(t, 0, pos.Offset())
	assert.Equal(t, 3, next.Offset())
	assert.Equal(t, "hel", pos.Between(next))
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	pos := text.NewPosition("ab\ncd\nef").Advance(6)
	line, col := pos.LineColumn()
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, col)
}
