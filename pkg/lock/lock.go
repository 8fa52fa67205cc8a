package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serialises work per key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// KeyedMutex is an in-process Locker. Entries are dropped once unused.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*KeyedMutex)(nil)

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(key, e)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// RedisLocker extends KeyedMutex across instances with SET NX PX. The local
// mutex is taken first so one process never spins against itself.
type RedisLocker struct {
	rdb      *redis.Client
	local    *KeyedMutex
	prefix   string
	ttl      time.Duration
	interval time.Duration
}

var _ Locker = (*RedisLocker)(nil)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

func NewRedisLocker(rdb *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLocker{
		rdb:      rdb,
		local:    NewKeyedMutex(),
		prefix:   prefix,
		ttl:      ttl,
		interval: 100 * time.Millisecond,
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlockLocal, err := r.local.Lock(ctx, key)
	if err != nil {
		return nil, err
	}

	redisKey := r.prefix + key
	token := uuid.NewString()

	for {
		ok, err := r.rdb.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			unlockLocal()
			return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
		}
		if ok {
			break
		}

		select {
		case <-time.After(r.interval):
		case <-ctx.Done():
			unlockLocal()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release even when the request context is already cancelled
			_ = releaseScript.Run(context.Background(), r.rdb, []string{redisKey}, token).Err()
			unlockLocal()
		})
	}, nil
}
