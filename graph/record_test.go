package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordAccessors(t *testing.T) {
	record := Record{
		"title":  "  My Note  ",
		"count":  float64(3),
		"tags":   []any{"work", 42, "home"},
		"nested": map[string]any{"text": "inner"},
	}

	assert.Equal(t, "My Note", record.GetString("title"))
	assert.Equal(t, "", record.GetString("count"), "non-string field reads as empty")
	assert.Equal(t, "", record.GetString("missing"))
	assert.Equal(t, "fallback", record.GetStringOr("missing", "fallback"))
	assert.Equal(t, []string{"work", "home"}, record.GetStrings("tags"), "non-string elements skipped")
	assert.Nil(t, record.GetStrings("title"))
	assert.Equal(t, "inner", record.GetMap("nested").GetString("text"))
	assert.Nil(t, record.GetMap("title"))
}

func TestRecordTags(t *testing.T) {
	record := Record{"tags": []any{"a", "  ", "", "b"}}
	assert.Equal(t, []string{"a", "b"}, record.Tags())

	assert.Nil(t, Record{"tags": "not-a-list"}.Tags())
	assert.Nil(t, Record{}.Tags())
}

func TestModifiedAt(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected time.Time
	}{
		{
			name:     "modified wins over created_at",
			record:   Record{"modified": "2024-03-01T10:00:00Z", "created_at": "2020-01-01T00:00:00Z"},
			expected: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "updated used when modified absent",
			record:   Record{"updated": "2023-06-15T08:30:00Z"},
			expected: time.Date(2023, 6, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "event start field",
			record:   Record{"start": "2025-02-03"},
			expected: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "space separated layout",
			record:   Record{"modified": "2024-05-06 07:08:09"},
			expected: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
		},
		{
			name:     "garbage defaults to zero",
			record:   Record{"modified": "yesterday"},
			expected: time.Time{},
		},
		{
			name:     "absent defaults to zero",
			record:   Record{},
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.record.ModifiedAt().Equal(tt.expected),
				"expected %v, got %v", tt.expected, tt.record.ModifiedAt())
		})
	}
}
