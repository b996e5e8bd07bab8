package session

import (
	"context"
	"sync"

	"sjsage522/adscraper/internal/crawler"
)

// Store holds the current collection of each browser session.
// A session owns exactly one slot; Save replaces it wholesale.
type Store interface {
	// Load returns the session's collection; ok is false when nothing was saved
	Load(ctx context.Context, id string) (records crawler.Collection, ok bool, err error)

	// Save replaces the session's collection
	Save(ctx context.Context, id string, records crawler.Collection) error

	// Reset clears the session's collection
	Reset(ctx context.Context, id string) error
}

// MemoryStore implements Store with an in-process map
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]crawler.Collection
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]crawler.Collection)}
}

// Load returns a copy of the session's collection
func (m *MemoryStore) Load(_ context.Context, id string) (crawler.Collection, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, ok := m.slots[id]
	if !ok {
		return nil, false, nil
	}
	return append(crawler.Collection{}, records...), true, nil
}

// Save stores a copy of records under id
func (m *MemoryStore) Save(_ context.Context, id string, records crawler.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[id] = append(crawler.Collection{}, records...)
	return nil
}

// Reset removes the session's slot
func (m *MemoryStore) Reset(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.slots, id)
	return nil
}
