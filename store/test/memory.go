// Package test provides an in-memory store driver for tests.
package test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/vaultview/store"
)

// MemoryDriver is an in-memory store.Driver. Safe for concurrent use.
type MemoryDriver struct {
	mu       sync.RWMutex
	entities map[string]map[string]*store.Entity // entityType -> id -> entity
}

// NewMemoryDriver creates an empty in-memory driver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{entities: make(map[string]map[string]*store.Entity)}
}

func (m *MemoryDriver) GetDB() *sql.DB { return nil }

func (m *MemoryDriver) Close() error { return nil }

func (m *MemoryDriver) IsInitialized(context.Context) (bool, error) { return true, nil }

func (m *MemoryDriver) ListEntities(_ context.Context, find *store.FindEntity) ([]*store.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*store.Entity
	for id, entity := range m.entities[find.EntityType] {
		if find.ID != nil && *find.ID != id {
			continue
		}
		out = append(out, entity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryDriver) GetEntity(ctx context.Context, find *store.FindEntity) (*store.Entity, error) {
	entities, err := m.ListEntities(ctx, find)
	if err != nil || len(entities) == 0 {
		return nil, err
	}
	return entities[0], nil
}

func (m *MemoryDriver) UpsertEntity(_ context.Context, upsert *store.Entity) (*store.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if upsert.UpdatedTs == 0 {
		upsert.UpdatedTs = time.Now().Unix()
	}
	if m.entities[upsert.EntityType] == nil {
		m.entities[upsert.EntityType] = make(map[string]*store.Entity)
	}
	m.entities[upsert.EntityType][upsert.ID] = upsert
	return upsert, nil
}

func (m *MemoryDriver) DeleteEntity(_ context.Context, del *store.DeleteEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if byID, ok := m.entities[del.EntityType]; ok {
		delete(byID, del.ID)
	}
	return nil
}
