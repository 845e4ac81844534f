package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string // composite ids in order
	}{
		{
			name:     "wiki link with label",
			text:     "see [[note:abc|My Note]] for details",
			expected: []string{"note:abc"},
		},
		{
			name:     "wiki link without label",
			text:     "see [[task:t-9]]",
			expected: []string{"task:t-9"},
		},
		{
			name:     "vault url",
			text:     "open vault://contact/c1 now",
			expected: []string{"contact:c1"},
		},
		{
			name:     "mixed syntaxes ordered by position",
			text:     "vault://note/z then [[note:a]] then vault://task/b",
			expected: []string{"note:z", "note:a", "task:b"},
		},
		{
			name:     "no links",
			text:     "plain text [not a link] http://example.com",
			expected: nil,
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "underscore link types",
			text:     "[[journal_entry:j1]] and vault://contact_group/g2",
			expected: []string{"journal_entry:j1", "contact_group:g2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := ExtractLinks(tt.text)
			require.Len(t, refs, len(tt.expected))
			for i, want := range tt.expected {
				assert.Equal(t, want, refs[i].CompositeID())
			}
		})
	}
}

func TestExtractLinksSpans(t *testing.T) {
	text := "x [[note:a|A]] y"
	refs := ExtractLinks(text)
	require.Len(t, refs, 1)
	assert.Equal(t, "[[note:a|A]]", text[refs[0].Start:refs[0].End])
}
