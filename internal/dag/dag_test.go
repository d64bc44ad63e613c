package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdge_Errors(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("a")
	g.AddNode("b")

	require.NoError(t, g.AddEdge("a", "b"))
	assert.Error(t, g.AddEdge("a", "a"))
	assert.Error(t, g.AddEdge("a", "missing"))
	assert.Error(t, g.AddEdge("missing", "b"))
}

func TestDetectCycles(t *testing.T) {
	t.Parallel()

	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.DetectCycles())

	require.NoError(t, g.AddEdge("c", "a"))
	assert.Error(t, g.DetectCycles())
}

func TestVerifyOrder(t *testing.T) {
	t.Parallel()

	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))

	assert.NoError(t, g.VerifyOrder([]string{"a", "b", "c"}))
	assert.Error(t, g.VerifyOrder([]string{"b", "a", "c"}), "violated constraint")
	assert.Error(t, g.VerifyOrder([]string{"a", "b"}), "missing node")
	assert.Error(t, g.VerifyOrder([]string{"a", "a", "b", "c"}), "duplicate node")
	assert.Error(t, g.VerifyOrder([]string{"a", "b", "c", "d"}), "unknown node")
}
