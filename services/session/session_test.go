package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/adscraper/internal/crawler"
)

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MemcacheStore)(nil)
)

func sampleCollection() crawler.Collection {
	return crawler.Collection{
		{Title: "Chemise", Price: "12 500 CFA", Location: "Dakar", PageNumber: 1,
			CollectedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC), SourceURL: "https://sn.coinafrique.com/categorie/vetements-homme"},
		{Title: "Jean", Price: "8 000 CFA", Location: "Thiès", PageNumber: 2,
			CollectedAt: time.Date(2026, 10, 18, 9, 30, 2, 0, time.UTC), SourceURL: "https://sn.coinafrique.com/categorie/vetements-homme"},
	}
}

// exerciseStore runs the Store contract against an implementation
func exerciseStore(t *testing.T, store Store, id string) {
	ctx := context.Background()

	_, ok, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, id, sampleCollection()))
	records, ok, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleCollection(), records)

	// a new run replaces the slot wholesale, even with an empty result
	require.NoError(t, store.Save(ctx, id, crawler.Collection{}))
	records, ok, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, records)

	require.NoError(t, store.Reset(ctx, id))
	_, ok, err = store.Load(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	// resetting an empty slot is fine
	require.NoError(t, store.Reset(ctx, id))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(), "4b1c2f0e-8f3a-4c55-9f43-1a2b3c4d5e6f")
}

func TestMemoryStoreIsolatesSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Save(ctx, "a", sampleCollection()))
	_, ok, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	// callers cannot mutate the stored slot through a loaded copy
	records, _, _ := store.Load(ctx, "a")
	records[0].Title = "changed"
	again, _, _ := store.Load(ctx, "a")
	assert.Equal(t, "Chemise", again[0].Title)
}

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheStore(t *testing.T) {
	store := NewMemcacheStore("localhost:11211", time.Minute)
	if err := store.Ping(); err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	exerciseStore(t, store, "test-"+time.Now().Format("150405.000000"))
}
