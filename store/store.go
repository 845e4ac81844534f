package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hrygo/vaultview/graph"
	"github.com/hrygo/vaultview/internal/profile"
	"github.com/hrygo/vaultview/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// graphCache holds built graphs keyed by query signature.
	graphCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	capacity := 16
	if profile != nil && profile.GraphCacheSize > 0 {
		capacity = profile.GraphCacheSize
	}
	return &Store{
		driver:     driver,
		profile:    profile,
		graphCache: cache.New(capacity, 2*time.Minute),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// GraphCache exposes the graph cache for the graph service.
func (s *Store) GraphCache() *cache.Cache {
	return s.graphCache
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// ListEntities returns every record of one entity type as schemaless
// records. Rows whose JSON cannot be decoded are skipped, not fatal.
func (s *Store) ListEntities(ctx context.Context, entityType string) ([]graph.Record, error) {
	entities, err := s.driver.ListEntities(ctx, &FindEntity{EntityType: entityType})
	if err != nil {
		return nil, err
	}
	records := make([]graph.Record, 0, len(entities))
	for _, entity := range entities {
		record, err := decodeRecord(entity)
		if err != nil {
			slog.Warn("skipping malformed entity", "entity_type", entityType, "id", entity.ID, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// GetEntity fetches a single record. An absent record is (nil, nil).
func (s *Store) GetEntity(ctx context.Context, entityType string, id string) (graph.Record, error) {
	entity, err := s.driver.GetEntity(ctx, &FindEntity{EntityType: entityType, ID: &id})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	return decodeRecord(entity)
}

// UpsertEntity writes a record. The graph layer never calls this; it exists
// for seeding and import tooling.
func (s *Store) UpsertEntity(ctx context.Context, upsert *Entity) (*Entity, error) {
	return s.driver.UpsertEntity(ctx, upsert)
}

// DeleteEntity removes a record.
func (s *Store) DeleteEntity(ctx context.Context, delete *DeleteEntity) error {
	return s.driver.DeleteEntity(ctx, delete)
}

func decodeRecord(entity *Entity) (graph.Record, error) {
	record := graph.Record{}
	if len(entity.Data) > 0 {
		if err := json.Unmarshal(entity.Data, &record); err != nil {
			return nil, err
		}
	}
	// The row key wins over whatever the document claims.
	record["id"] = entity.ID
	return record, nil
}
