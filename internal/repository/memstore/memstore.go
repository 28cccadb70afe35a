// Package memstore keeps cart blobs in process memory. It is the default
// backend for local development and tests.
package memstore

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"bethys-backend/internal/domain"
	"bethys-backend/internal/repository/blob"
)

type memStore struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates an in-memory cart store.
// ttl: how long an untouched cart survives
// cleanupInterval: how often to scan for expired carts
func New(ttl, cleanupInterval time.Duration) domain.CartRepository {
	return &memStore{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *memStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	value, found := s.store.Get(sessionID)
	if !found {
		return nil, domain.ErrCartNotFound
	}
	payload, ok := value.([]byte)
	if !ok {
		return nil, domain.ErrCartCorrupt
	}
	return blob.Decode(payload)
}

func (s *memStore) Put(_ context.Context, sessionID string, cart *domain.Cart) error {
	payload, err := blob.Encode(cart)
	if err != nil {
		return err
	}
	// Unconditional overwrite, last-writer-wins
	s.store.Set(sessionID, payload, s.ttl)
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	s.store.Delete(sessionID)
	return nil
}
