package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Entity model related methods. Entities are schemaless JSON
	// documents; the graph layer only ever reads them.
	ListEntities(ctx context.Context, find *FindEntity) ([]*Entity, error)
	GetEntity(ctx context.Context, find *FindEntity) (*Entity, error)
	UpsertEntity(ctx context.Context, upsert *Entity) (*Entity, error)
	DeleteEntity(ctx context.Context, delete *DeleteEntity) error
}
