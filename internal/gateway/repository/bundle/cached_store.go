package bundle

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedStore keeps recently served archives in memory in front of a slower
// origin store.
type CachedStore struct {
	origin Store
	cache  *lru.Cache[string, []byte]
}

const defaultCacheEntries = 128

func NewCachedStore(origin Store) (*CachedStore, error) {
	if origin == nil {
		return nil, fmt.Errorf("origin store is required")
	}
	cache, err := lru.New[string, []byte](defaultCacheEntries)
	if err != nil {
		return nil, err
	}
	return &CachedStore{origin: origin, cache: cache}, nil
}

func (s *CachedStore) Put(ctx context.Context, sessionID string, data []byte) error {
	if err := s.origin.Put(ctx, sessionID, data); err != nil {
		return err
	}
	s.cache.Add(sessionID, append([]byte(nil), data...))
	return nil
}

func (s *CachedStore) Get(ctx context.Context, sessionID string) ([]byte, error) {
	if data, ok := s.cache.Get(sessionID); ok {
		return append([]byte(nil), data...), nil
	}
	data, err := s.origin.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(sessionID, append([]byte(nil), data...))
	return data, nil
}

func (s *CachedStore) URL(ctx context.Context, sessionID string) (string, error) {
	return s.origin.URL(ctx, sessionID)
}

func (s *CachedStore) Delete(ctx context.Context, sessionID string) error {
	s.cache.Remove(sessionID)
	return s.origin.Delete(ctx, sessionID)
}
