package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{"id": "n1", "title": "First note", "tags": []any{"work"}})
	store.add("note", Record{"id": "n2", "content": "Untitled but has content"})
	store.add("note", Record{"title": "no id, skipped"})
	store.add("contact", Record{"id": "c1", "full_name": "Ada Lovelace"})
	store.add("company", Record{"id": "co1", "company_name": "Acme"})

	nodes := NewAggregator(store).Aggregate(context.Background())
	require.Len(t, nodes, 4)

	byID := make(map[string]*GraphNode)
	for _, node := range nodes {
		byID[node.ID] = node
	}
	assert.Equal(t, "First note", byID["note:n1"].Title)
	assert.Equal(t, []string{"work"}, byID["note:n1"].Tags)
	assert.Equal(t, NodeTypeNote, byID["note:n1"].Type)
	assert.Equal(t, "Untitled but has content", byID["note:n2"].Title)
	assert.Equal(t, "Ada Lovelace", byID["contact:c1"].Title)
	assert.Equal(t, NodeTypeCompany, byID["company:co1"].Type)
}

func TestAggregateFailureIsolation(t *testing.T) {
	store := newFakeStore()
	store.add("note", Record{"id": "n1", "title": "survivor"})
	store.add("task", Record{"id": "t1", "title": "also survives"})
	store.failing["contact"] = true
	store.failing["event"] = true

	nodes := NewAggregator(store).Aggregate(context.Background())

	assert.Len(t, nodes, 2, "failing categories degrade to zero nodes without aborting siblings")
	assert.Len(t, store.listCalls, len(Catalog), "every category is still queried")
}

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name     string
		class    EntityClass
		record   Record
		expected string
	}{
		{
			name:     "entity specific field wins",
			class:    EntityClass{EntityType: "contact", LinkType: "contact", NodeType: NodeTypeContact},
			record:   Record{"full_name": "Ada", "name": "ignored"},
			expected: "Ada",
		},
		{
			name:     "generic fallback",
			class:    EntityClass{EntityType: "note", LinkType: "note", NodeType: NodeTypeNote},
			record:   Record{"subject": "A subject"},
			expected: "A subject",
		},
		{
			name:     "description truncated to fifty runes",
			class:    EntityClass{EntityType: "note", LinkType: "note", NodeType: NodeTypeNote},
			record:   Record{"description": "0123456789012345678901234567890123456789012345678901234567890"},
			expected: "01234567890123456789012345678901234567890123456789...",
		},
		{
			name:     "first line only",
			class:    EntityClass{EntityType: "note", LinkType: "note", NodeType: NodeTypeNote},
			record:   Record{"content": "first line\nsecond line"},
			expected: "first line",
		},
		{
			name:     "entity type as last resort",
			class:    EntityClass{EntityType: "snippet", LinkType: "snippet", NodeType: NodeTypeSnippet},
			record:   Record{},
			expected: "snippet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveTitle(tt.record, tt.class))
		})
	}
}
