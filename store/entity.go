package store

import "encoding/json"

// Entity is one raw vault record: a JSON document keyed by entity type and
// id. Schemas vary per type and unknown fields are expected.
type Entity struct {
	EntityType string
	ID         string
	Data       json.RawMessage
	UpdatedTs  int64
}

// FindEntity selects entities by type and optionally by id.
type FindEntity struct {
	EntityType string
	ID         *string
}

// DeleteEntity removes one entity.
type DeleteEntity struct {
	EntityType string
	ID         string
}
