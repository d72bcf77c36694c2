// Package ratelimit implements a fixed-window request counter over a pluggable store.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pdfshare/internal/config"
)

// Store counts hits per key. The first Incr for a key starts a window of the given length;
// later calls within the window increment without extending it.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Limiter admits at most Limit hits per key in each window.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
}

func New(store Store, limit int, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// Key builds the counter key for an endpoint name and caller address.
func Key(name, ip string) string {
	return name + "_" + ip
}

// Limit returns the configured number of hits per window.
func (l *Limiter) Limit() int { return l.limit }

// Allow records a hit for key. On store failure it returns an allowing Result together with the error.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	n, err := l.store.Incr(ctx, key, l.window)
	if err != nil {
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("rate limit store: %w", err)
	}

	remaining := l.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   n <= int64(l.limit),
		Limit:     l.limit,
		Remaining: remaining,
	}, nil
}

// NewStore builds the counter store named by cfg.Store.
func NewStore(cfg config.RateLimitConfig) (Store, error) {
	switch cfg.Store {
	case "memory", "":
		return NewMemoryStore(cfg.Window), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, errors.New("REDIS_ADDR is required for the redis rate limit store")
		}
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case "memcached":
		if cfg.MemcachedAddr == "" {
			return nil, errors.New("MEMCACHED_ADDR is required for the memcached rate limit store")
		}
		return NewMemcachedStore(cfg.MemcachedAddr), nil
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
}
