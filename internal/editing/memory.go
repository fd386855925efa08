package editing

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data    *Data
	expires time.Time
}

// MemoryStore keeps editing snapshots in process memory. It is the default
// for single-instance deployments and for tests.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: map[string]memoryEntry{},
	}
}

func (s *MemoryStore) Put(_ context.Context, data *Data) error {
	if err := data.Validate(); err != nil {
		return err
	}

	copied := *data

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[data.Key] = memoryEntry{data: &copied, expires: s.now().Add(s.ttl)}

	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !s.now().Before(entry.expires) {
		return nil, ErrDataNotFound
	}

	copied := *entry.data

	return &copied, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)

	return nil
}

func (s *MemoryStore) Prune(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	pruned := 0
	for key, entry := range s.entries {
		if !now.Before(entry.expires) {
			delete(s.entries, key)
			pruned++
		}
	}

	return pruned, nil
}

func (s *MemoryStore) Close() error { return nil }
