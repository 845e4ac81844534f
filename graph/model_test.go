package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph(nodeIDs []string, edges []GraphEdge) *GraphData {
	g := NewGraphData()
	for _, id := range nodeIDs {
		g.AddNode(&GraphNode{ID: id, Title: id, Type: NodeTypeNote, LinkType: "note"})
	}
	for _, edge := range edges {
		g.AddEdge(edge)
	}
	g.BuildAdjacency()
	return g
}

func TestAdjacencySymmetry(t *testing.T) {
	g := testGraph(
		[]string{"note:a", "note:b", "note:c", "note:d"},
		[]GraphEdge{
			{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
			{Source: "note:b", Target: "note:c", Type: EdgeTypeHierarchy},
			{Source: "note:c", Target: "note:a", Type: EdgeTypeMembership},
		},
	)

	for id, neighbors := range g.AdjacencyList {
		for neighbor := range neighbors {
			_, ok := g.AdjacencyList[neighbor][id]
			assert.True(t, ok, "adjacency must be symmetric: %s in adj[%s] but not vice versa", id, neighbor)
		}
	}
}

func TestAddEdgeDeduplication(t *testing.T) {
	tests := []struct {
		name     string
		edges    []GraphEdge
		expected int
	}{
		{
			name: "same pair same bucket collapses",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
				{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
			},
			expected: 1,
		},
		{
			name: "reversed pair same bucket collapses",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
				{Source: "note:b", Target: "note:a", Type: EdgeTypeContent},
			},
			expected: 1,
		},
		{
			name: "backref shares the content bucket",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
				{Source: "note:b", Target: "note:a", Type: EdgeTypeBackRef},
			},
			expected: 1,
		},
		{
			name: "content and structural kinds coexist",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
				{Source: "note:a", Target: "note:b", Type: EdgeTypeHierarchy},
				{Source: "note:a", Target: "note:b", Type: EdgeTypeTag},
			},
			expected: 3,
		},
		{
			name: "self reference dropped",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:a", Type: EdgeTypeContent},
			},
			expected: 0,
		},
		{
			name: "unknown endpoint dropped",
			edges: []GraphEdge{
				{Source: "note:a", Target: "note:zzz", Type: EdgeTypeContent},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGraph([]string{"note:a", "note:b"}, tt.edges)
			assert.Equal(t, tt.expected, g.EdgeCount())
		})
	}
}

func TestBFSBall(t *testing.T) {
	// a - b - c - d, with e disconnected.
	g := testGraph(
		[]string{"note:a", "note:b", "note:c", "note:d", "note:e"},
		[]GraphEdge{
			{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
			{Source: "note:b", Target: "note:c", Type: EdgeTypeContent},
			{Source: "note:c", Target: "note:d", Type: EdgeTypeContent},
		},
	)

	t.Run("depth zero is the center alone", func(t *testing.T) {
		ball := g.BFSBall("note:b", 0)
		require.Len(t, ball, 1)
		assert.Contains(t, ball, "note:b")
	})

	t.Run("depth one", func(t *testing.T) {
		ball := g.BFSBall("note:b", 1)
		assert.Len(t, ball, 3)
		assert.Contains(t, ball, "note:a")
		assert.Contains(t, ball, "note:c")
	})

	t.Run("depth covers the component only", func(t *testing.T) {
		ball := g.BFSBall("note:a", 10)
		assert.Len(t, ball, 4)
		assert.NotContains(t, ball, "note:e")
	})

	t.Run("unknown center", func(t *testing.T) {
		assert.Nil(t, g.BFSBall("note:missing", 2))
	})
}

func TestSubgraph(t *testing.T) {
	g := testGraph(
		[]string{"note:a", "note:b", "note:c"},
		[]GraphEdge{
			{Source: "note:a", Target: "note:b", Type: EdgeTypeContent},
			{Source: "note:b", Target: "note:c", Type: EdgeTypeContent},
		},
	)

	sub := g.Subgraph(map[string]struct{}{"note:a": {}, "note:b": {}})
	assert.Equal(t, 2, sub.NodeCount())
	require.Equal(t, 1, sub.EdgeCount())
	assert.Equal(t, "note:a", sub.Edges[0].Source)

	// The view owns copies; moving a view node leaves the source alone.
	sub.Nodes["note:a"].X = 123
	assert.NotEqual(t, 123.0, g.Nodes["note:a"].X)
}

func TestRadius(t *testing.T) {
	hub := &GraphNode{LinkCount: 100}
	leaf := &GraphNode{LinkCount: 0}
	assert.Greater(t, hub.Radius(0), leaf.Radius(0))
	assert.GreaterOrEqual(t, leaf.Radius(5), 3.0, "radius is floored")
}
