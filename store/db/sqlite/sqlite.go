package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/hrygo/vaultview/internal/profile"
	"github.com/hrygo/vaultview/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a SQLite database at the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// SQLite tuning for a single local reader: WAL keeps reads open
	// during imports, busy_timeout covers writer contention.
	dsn := profile.DSN + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

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
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'entity'`,
	).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "failed to query sqlite_master")
	}
	return count > 0, nil
}

func (d *DB) ensureSchema(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS entity (
			entity_type TEXT NOT NULL,
			id TEXT NOT NULL,
			data TEXT NOT NULL DEFAULT '{}',
			updated_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now')),
			PRIMARY KEY (entity_type, id)
		);
		CREATE INDEX IF NOT EXISTS idx_entity_type ON entity (entity_type);
	`)
	return err
}

func (d *DB) ListEntities(ctx context.Context, find *store.FindEntity) ([]*store.Entity, error) {
	where, args := []string{"entity_type = ?"}, []any{find.EntityType}
	if find.ID != nil {
		where = append(where, "id = ?")
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
		var data string
		if err := rows.Scan(&entity.EntityType, &entity.ID, &data, &entity.UpdatedTs); err != nil {
			return nil, errors.Wrap(err, "failed to scan entity")
		}
		entity.Data = []byte(data)
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
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entity_type, id)
		DO UPDATE SET data = excluded.data, updated_ts = excluded.updated_ts
	`, upsert.EntityType, upsert.ID, string(upsert.Data), upsert.UpdatedTs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert entity")
	}
	return upsert, nil
}

func (d *DB) DeleteEntity(ctx context.Context, delete *store.DeleteEntity) error {
	_, err := d.db.ExecContext(ctx,
		"DELETE FROM entity WHERE entity_type = ? AND id = ?",
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
