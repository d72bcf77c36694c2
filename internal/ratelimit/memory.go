package ratelimit

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps counters in process. Counts are not shared between instances.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore purges expired counters every cleanup interval.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	return &MemoryStore{c: cache.New(cache.NoExpiration, cleanup)}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	for {
		if err := s.c.Add(key, int64(1), window); err == nil {
			return 1, nil
		}
		n, err := s.c.IncrementInt64(key, 1)
		if err == nil {
			return n, nil
		}
		// The counter expired between Add and IncrementInt64; start a new window.
	}
}
