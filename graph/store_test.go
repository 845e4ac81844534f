package graph

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// fakeStore is an in-memory EntityStore for tests. Entity types listed in
// failing reject every call; ids listed in failingIDs reject fetches.
type fakeStore struct {
	mu         sync.Mutex
	records    map[string][]Record
	failing    map[string]bool
	failingIDs map[string]bool
	listCalls  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:    make(map[string][]Record),
		failing:    make(map[string]bool),
		failingIDs: make(map[string]bool),
	}
}

func (f *fakeStore) add(entityType string, record Record) {
	f.records[entityType] = append(f.records[entityType], record)
}

func (f *fakeStore) ListEntities(_ context.Context, entityType string) ([]Record, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, entityType)
	f.mu.Unlock()
	if f.failing[entityType] {
		return nil, errors.New("store unavailable")
	}
	return f.records[entityType], nil
}

func (f *fakeStore) GetEntity(_ context.Context, entityType string, id string) (Record, error) {
	if f.failing[entityType] || f.failingIDs[id] {
		return nil, errors.New("store unavailable")
	}
	for _, record := range f.records[entityType] {
		if record.GetString("id") == id {
			return record, nil
		}
	}
	return nil, nil
}
