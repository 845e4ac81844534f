package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNodes(t *testing.T, store *fakeStore) *GraphData {
	t.Helper()
	g := NewGraphData()
	for _, node := range NewAggregator(store).Aggregate(context.Background()) {
		g.AddNode(node)
	}
	return g
}

func TestResolveStructural(t *testing.T) {
	store := newFakeStore()
	store.add("contact", Record{"id": "x", "full_name": "Ada", "company_id": "C1"})
	store.add("company", Record{"id": "C1", "company_name": "Acme"})
	store.add("contact_group", Record{"id": "g1", "name": "Friends", "member_ids": []any{"x", "ghost"}})
	store.add("task", Record{"id": "t1", "title": "child", "parent_id": "t2"})
	store.add("task", Record{"id": "t2", "title": "parent"})

	g := buildNodes(t, store)
	NewResolver(store).ResolveStructural(context.Background(), g)

	kinds := make(map[EdgeType]int)
	for _, edge := range g.Edges {
		kinds[edge.Type]++
	}
	// contact->company, group->contact (the ghost member resolves to
	// nothing), task->task hierarchy.
	assert.Equal(t, 2, kinds[EdgeTypeMembership])
	assert.Equal(t, 1, kinds[EdgeTypeHierarchy])
	assert.Contains(t, g.Edges, GraphEdge{Source: "contact:x", Target: "company:C1", Type: EdgeTypeMembership})
}

func TestResolveStructuralMissingTarget(t *testing.T) {
	store := newFakeStore()
	store.add("contact", Record{"id": "x", "full_name": "Ada", "company_id": "C1"})
	// company:C1 does not exist.

	g := buildNodes(t, store)
	NewResolver(store).ResolveStructural(context.Background(), g)

	assert.Zero(t, g.EdgeCount(), "unresolvable reference yields no edge and no error")
}

func TestResolveContentWikiLink(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{"id": "A", "title": "A", "content": "points to [[note:B|Link]]"})
	store.add("note", Record{"id": "B", "title": "B", "content": "no links"})

	g := buildNodes(t, store)
	NewResolver(store).ResolveContent(context.Background(), g)

	require.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, GraphEdge{Source: "note:A", Target: "note:B", Type: EdgeTypeContent}, g.Edges[0])
}

func TestResolveContentVariants(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{
		"id":      "A",
		"title":   "A",
		"content": "see vault://task/t1 and [[note:A]] and [[note:missing]]",
		"links":   []any{"contact:c1", "garbage", "nope:x"},
		"linked_items": []any{
			map[string]any{"link_type": "company", "item_id": "co1"},
			map[string]any{"link_type": "company"}, // malformed, skipped
		},
	})
	store.add("task", Record{"id": "t1", "title": "T"})
	store.add("contact", Record{"id": "c1", "full_name": "C"})
	store.add("company", Record{"id": "co1", "company_name": "Co"})

	g := buildNodes(t, store)
	NewResolver(store).ResolveContent(context.Background(), g)

	targets := make(map[string]bool)
	for _, edge := range g.Edges {
		require.Equal(t, EdgeTypeContent, edge.Type)
		require.Equal(t, "note:A", edge.Source)
		targets[edge.Target] = true
	}
	assert.Len(t, targets, 3)
	assert.True(t, targets["task:t1"], "vault url resolves")
	assert.True(t, targets["contact:c1"], "explicit link string resolves")
	assert.True(t, targets["company:co1"], "linked item pair resolves")
	// Self-reference and unknown targets were dropped silently.
}

func TestResolveContentFetchFailureSkipsNode(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{"id": "A", "title": "A", "content": "[[note:B]]"})
	store.add("note", Record{"id": "B", "title": "B", "content": "[[note:A]]"})
	store.failingIDs["B"] = true

	g := buildNodes(t, store)
	NewResolver(store).ResolveContent(context.Background(), g)

	// A's edge still lands; B contributes nothing. Both collapse into
	// the same content bucket anyway.
	assert.Equal(t, 1, g.EdgeCount())
}

func TestResolveContentStructuredBlocks(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{
		"id":    "A",
		"title": "A",
		"content": map[string]any{
			"blocks": []any{
				map[string]any{"text": "intro [[note:B]]"},
				map[string]any{"children": []any{
					map[string]any{"text": "deep vault://note/C"},
				}},
			},
		},
	})
	store.add("note", Record{"id": "B", "title": "B"})
	store.add("note", Record{"id": "C", "title": "C"})

	g := buildNodes(t, store)
	NewResolver(store).ResolveContent(context.Background(), g)

	assert.Equal(t, 2, g.EdgeCount(), "string leaves of block documents are scanned")
}
