package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/hrygo/vaultview/internal/profile"
	"github.com/hrygo/vaultview/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection at the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Single-user viewer: a small pool with long-lived connections.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	driver := &DB{db: db, profile: profile}
	if err := driver.ensureSchema(context.Background()); err != nil {
		return nil, errors.Wrap(err, "failed to ensure schema")
	}
	return driver, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'entity')`,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to query information_schema")
	}
	return exists, nil
}

func (d *DB) ensureSchema(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entity (
			entity_type TEXT NOT NULL,
			id TEXT NOT NULL,
			data JSONB NOT NULL DEFAULT '{}',
			updated_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
			PRIMARY KEY (entity_type, id)
		);
		CREATE INDEX IF NOT EXISTS idx_entity_type ON entity (entity_type);
	`)
	return err
}

func (d *DB) ListEntities(ctx context.Context, find *store.FindEntity) ([]*store.Entity, error) {
	where, args := []string{"entity_type = $1"}, []any{find.EntityType}
	if find.ID != nil {
		where = append(where, fmt.Sprintf("id = $%d", len(args)+1))
		args = append(args, *find.ID)
	}

	query := "SELECT entity_type, id, data, updated_ts FROM entity WHERE " + joinAnd(where)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query entities")
	}
	defer rows.Close()

	var entities []*store.Entity
	for rows.Next() {
		entity := &store.Entity{}
		var data []byte
		if err := rows.Scan(&entity.EntityType, &entity.ID, &data, &entity.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan entity")
		}
		entity.Data = data
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

func (d *DB) GetEntity(ctx context.Context, find *store.FindEntity) (*store.Entity, error) {
	entities, err := d.ListEntities(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0], nil
}

func (d *DB) UpsertEntity(ctx context.Context, upsert *store.Entity) (*store.Entity, error) {
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO entity (entity_type, id, data, updated_ts)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entity_type, id)
		DO UPDATE SET data = EXCLUDED.data, updated_ts = EXCLUDED.updated_ts
	`, upsert.EntityType, upsert.ID, string(upsert.Data), upsert.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert entity")
	}
	return upsert, nil
}

func (d *DB) DeleteEntity(ctx context.Context, delete *store.DeleteEntity) error {
	_, err := d.db.ExecContext(ctx,
		"DELETE FROM entity WHERE entity_type = $1 AND id = $2",
		delete.EntityType, delete.ID,
	)
	return errors.Wrap(err, "failed to delete entity")
}

func joinAnd(conditions []string) string {
	out := conditions[0]
	for _, condition := range conditions[1:] {
		out += " AND " + condition
	}
	return out
}
