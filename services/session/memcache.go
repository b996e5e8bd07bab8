package session

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"sjsage522/adscraper/internal/crawler"
	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/pkg/errors"
)

const keyPrefix = "session:"

// MemcacheStore implements Store on top of memcached.
// Slots expire after ttl, so an abandoned session frees itself.
type MemcacheStore struct {
	client *memcache.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewMemcacheStore creates a new memcache-backed store
func NewMemcacheStore(serverAddr string, ttl time.Duration) *MemcacheStore {
	return &MemcacheStore{
		client: memcache.New(serverAddr),
		ttl:    ttl,
		log:    logger.ForSession(),
	}
}

// Ping checks that memcached is reachable
func (m *MemcacheStore) Ping() error {
	if err := m.client.Ping(); err != nil {
		return errors.NewSession("memcache is not reachable", err)
	}
	return nil
}

// Load decodes the session's collection from memcache
func (m *MemcacheStore) Load(_ context.Context, id string) (crawler.Collection, bool, error) {
	item, err := m.client.Get(keyPrefix + id)
	if stderrors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewSession("failed to load session", err)
	}

	var records crawler.Collection
	if err := json.Unmarshal(item.Value, &records); err != nil {
		return nil, false, errors.NewSession("failed to decode session", err)
	}
	if records == nil {
		records = crawler.Collection{}
	}
	return records, true, nil
}

// Save encodes records and stores them with the session TTL
func (m *MemcacheStore) Save(_ context.Context, id string, records crawler.Collection) error {
	if records == nil {
		records = crawler.Collection{}
	}

	value, err := json.Marshal(records)
	if err != nil {
		return errors.NewSession("failed to encode session", err)
	}

	err = m.client.Set(&memcache.Item{
		Key:        keyPrefix + id,
		Value:      value,
		Expiration: int32(m.ttl.Seconds()),
	})
	if err != nil {
		return errors.NewSession("failed to save session", err)
	}

	m.log.Debug().
		Str("session", id).
		Int("records", len(records)).
		Int("bytes", len(value)).
		Msg("Session saved")
	return nil
}

// Reset deletes the session's slot; a missing slot is not an error
func (m *MemcacheStore) Reset(_ context.Context, id string) error {
	err := m.client.Delete(keyPrefix + id)
	if err != nil && !stderrors.Is(err, memcache.ErrCacheMiss) {
		return errors.NewSession("failed to reset session", err)
	}
	return nil
}
