package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedStore shares counters between instances through ADD and INCR.
type MemcachedStore struct {
	mc *memcache.Client
}

func NewMemcachedStore(addr string) *MemcachedStore {
	mc := memcache.New(addr)
	mc.Timeout = 500 * time.Millisecond
	return &MemcachedStore{mc: mc}
}

func (s *MemcachedStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	ttl := int32(window / time.Second)
	if ttl < 1 {
		ttl = 1
	}
	for attempt := 0; attempt < 2; attempt++ {
		err := s.mc.Add(&memcache.Item{Key: key, Value: []byte(strconv.Itoa(1)), Expiration: ttl})
		if err == nil {
			return 1, nil
		}
		if !errors.Is(err, memcache.ErrNotStored) {
			return 0, err
		}

		n, err := s.mc.Increment(key, 1)
		if err == nil {
			return int64(n), nil
		}
		if !errors.Is(err, memcache.ErrCacheMiss) {
			return 0, err
		}
	}
	return 0, memcache.ErrCacheMiss
}
