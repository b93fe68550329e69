package mapping

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildNestedTree() *Mad {
	leafA := NewMad()
	leafA.Set("d", "")
	leafA.Set("val", int64(1))

	leafB := NewMad()
	leafB.Set("d", "")
	leafB.Set("val", int64(2))

	root := NewMad()
	root.Set("d", "")
	root.Set("a", leafA)
	root.Set("b", leafB)
	return root
}

func TestPartorTraceFindsLeavesNotRoot(t *testing.T) {
	root := buildNestedTree()
	p := NewPartor(root)

	paths, err := p.Trace(true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, paths)

	compact := p.IsCompact()
	require.NotNil(t, compact)
	require.False(t, *compact)
}

func TestPartorCompactReachesSingleTopLeaf(t *testing.T) {
	root := buildNestedTree()
	p := NewPartor(root)

	err := p.Compact()
	require.NoError(t, err)

	compact := p.IsCompact()
	require.NotNil(t, compact)
	require.True(t, *compact)

	// a and b should now be plain SAID strings, not nested maps.
	a, ok := p.Root().Get("a")
	require.True(t, ok)
	_, isMad := a.(*Mad)
	require.False(t, isMad)
	require.IsType(t, "", a)

	require.NotEmpty(t, p.Partials())
}

func TestPartorRejectsNestedMapInSaidField(t *testing.T) {
	bad := NewMad()
	bad.Set("d", NewMad())

	p := NewPartor(bad)
	_, err := p.Trace(true)
	require.Error(t, err)
}

func TestPartorGetSubAndSuperMad(t *testing.T) {
	root := buildNestedTree()
	p := NewPartor(root)

	sub := p.GetSubMad("a")
	require.NotNil(t, sub)
	v, ok := sub.Get("val")
	require.True(t, ok)
	require.Equal(t, int64(1), v)

	super := p.GetSuperMad("a")
	require.Same(t, root, super)

	require.Nil(t, p.GetSubMad("missing"))
	require.Nil(t, p.GetSuperMad(""))
}
