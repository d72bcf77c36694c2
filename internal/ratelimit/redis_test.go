package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis applies queued MULTI commands to an in-memory map; failTx makes
// the next transactions fail without applying anything.
type fakeRedis struct {
	redis.Cmdable
	values map[string]int64
	ttls   map[string]time.Duration
	failTx int
	txs    int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]int64{}, ttls: map[string]time.Duration{}}
}

// expire drops a key as if its TTL elapsed.
func (f *fakeRedis) expire(key string) {
	delete(f.values, key)
	delete(f.ttls, key)
}

func (f *fakeRedis) TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error) {
	f.txs++
	pipe := &fakePipe{}
	if err := fn(pipe); err != nil {
		return nil, err
	}
	if f.failTx > 0 {
		f.failTx--
		err := errors.New("i/o timeout")
		for _, c := range pipe.cmds {
			c.SetErr(err)
		}
		return pipe.cmds, err
	}
	for _, op := range pipe.ops {
		op(f)
	}
	return pipe.cmds, nil
}

type fakePipe struct {
	redis.Pipeliner
	cmds []redis.Cmder
	ops  []func(*fakeRedis)
}

func (p *fakePipe) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "setnx", key, value)
	p.cmds = append(p.cmds, cmd)
	p.ops = append(p.ops, func(f *fakeRedis) {
		if _, ok := f.values[key]; ok {
			cmd.SetVal(false)
			return
		}
		f.values[key] = 0
		f.ttls[key] = expiration
		cmd.SetVal(true)
	})
	return cmd
}

func (p *fakePipe) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	p.cmds = append(p.cmds, cmd)
	p.ops = append(p.ops, func(f *fakeRedis) {
		f.values[key]++
		cmd.SetVal(f.values[key])
	})
	return cmd
}

func TestRedisStore_CounterAlwaysCarriesWindow(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	store := &RedisStore{rdb: rdb}
	window := time.Minute
	key := Key("PublicComment", "203.0.113.7")

	for i := int64(1); i <= 3; i++ {
		n, err := store.Incr(ctx, key, window)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.Equal(t, window, rdb.ttls[key])
	}
	assert.Equal(t, 3, rdb.txs, "one round trip per hit")
}

func TestRedisStore_FailedHitLeavesNoCounterWithoutTTL(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.failTx = 1
	l := New(&RedisStore{rdb: rdb}, 5, time.Minute)
	key := Key("PublicComment", "203.0.113.7")

	_, err := l.Allow(ctx, key)
	require.Error(t, err)
	assert.NotContains(t, rdb.values, key)

	for i := 0; i < 5; i++ {
		res, err := l.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, rdb.ttls[key])

	rdb.expire(key)
	res, err = l.Allow(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "a new window starts once the TTL elapses")
}
