package graph

import (
	"context"
	"strings"
	"time"
)

// Record is a schemaless vault record. Entity schemas differ per type, so
// field access goes through defaulting accessors instead of per-type structs.
type Record map[string]any

// EntityStore is the capability surface this package consumes. Both calls
// are idempotent and side-effect free; an absent record is (nil, nil).
type EntityStore interface {
	ListEntities(ctx context.Context, entityType string) ([]Record, error)
	GetEntity(ctx context.Context, entityType string, id string) (Record, error)
}

// GetString returns the field as a trimmed string, or "" when absent or not
// a string.
func (r Record) GetString(field string) string {
	if v, ok := r[field].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// GetStringOr returns the field as a string, or fallback when absent/empty.
func (r Record) GetStringOr(field, fallback string) string {
	if s := r.GetString(field); s != "" {
		return s
	}
	return fallback
}

// GetStrings returns the field as a string slice. Non-string elements are
// skipped; a missing or mistyped field yields nil.
func (r Record) GetStrings(field string) []string {
	raw, ok := r[field].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetList returns the field as a raw slice, or nil.
func (r Record) GetList(field string) []any {
	raw, ok := r[field].([]any)
	if !ok {
		return nil
	}
	return raw
}

// GetMap returns the field as a nested record, or nil.
func (r Record) GetMap(field string) Record {
	raw, ok := r[field].(map[string]any)
	if !ok {
		return nil
	}
	return Record(raw)
}

// Tags returns the record's tag list with empty and whitespace-only entries
// removed.
func (r Record) Tags() []string {
	var out []string
	for _, tag := range r.GetStrings("tags") {
		if strings.TrimSpace(tag) != "" {
			out = append(out, tag)
		}
	}
	return out
}

// modifiedFields is the priority order for the last-modified instant.
var modifiedFields = []string{"modified", "updated", "updated_at", "created_at", "start"}

// ModifiedAt extracts the record's last-modified time, defaulting to the
// zero time when no candidate field parses.
func (r Record) ModifiedAt() time.Time {
	for _, field := range modifiedFields {
		raw := r.GetString(field)
		if raw == "" {
			continue
		}
		if ts, ok := parseTimestamp(raw); ok {
			return ts
		}
	}
	return time.Time{}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
