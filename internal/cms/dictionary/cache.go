package dictionary

import (
	"context"
	"maps"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how stale served phrases may get. Editors expect
// dictionary edits to show up within about a minute.
const DefaultCacheTTL = 60 * time.Second

type cacheEntry struct {
	phrases Phrases
	expires time.Time
}

// CachedService memoizes Fetch results per locale for a fixed TTL. A TTL of
// zero or below disables caching entirely.
type CachedService struct {
	inner Service
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewCachedService(inner Service, ttl time.Duration) *CachedService {
	return &CachedService{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]cacheEntry{},
	}
}

func (s *CachedService) Fetch(ctx context.Context, locale string) (Phrases, error) {
	if s.ttl <= 0 {
		return s.inner.Fetch(ctx, locale)
	}

	s.mu.Lock()
	entry, ok := s.entries[locale]
	s.mu.Unlock()
	if ok && s.now().Before(entry.expires) {
		return maps.Clone(entry.phrases), nil
	}

	phrases, err := s.inner.Fetch(ctx, locale)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[locale] = cacheEntry{phrases: phrases, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return maps.Clone(phrases), nil
}
