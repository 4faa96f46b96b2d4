package reconcile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards a sweep so that only one replica runs it at a time.
type Locker interface {
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}

const sweepLockKey = "reconcile:poster_sweep"

var releaseLockScript = redis.NewScript(`
    -- KEYS[1] = lock key
    -- ARGV[1] = token of the holder

    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    end

    return 0
`)

// RedisLocker holds the sweep lock in Redis. The lock expires after ttl so a crashed
// holder cannot block sweeping forever.
type RedisLocker struct {
	redis redis.UniversalClient
	ttl   time.Duration

	mu    sync.Mutex
	token string
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{redis: client, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context) (bool, error) {
	token := uuid.NewString()

	ok, err := l.redis.SetNX(ctx, sweepLockKey, token, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sweep lock: %w", err)
	}

	if !ok {
		return false, nil
	}

	l.mu.Lock()
	l.token = token
	l.mu.Unlock()

	return true, nil
}

// Unlock releases the lock only if it is still held with this locker's token.
func (l *RedisLocker) Unlock(ctx context.Context) error {
	l.mu.Lock()
	token := l.token
	l.token = ""
	l.mu.Unlock()

	if token == "" {
		return nil
	}

	err := releaseLockScript.Run(ctx, l.redis, []string{sweepLockKey}, token).Err()
	if err != nil {
		return fmt.Errorf("release sweep lock: %w", err)
	}

	return nil
}

// LocalLocker serializes sweeps inside a single process.
type LocalLocker struct {
	mu sync.Mutex
}

func (l *LocalLocker) TryLock(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *LocalLocker) Unlock(context.Context) error {
	l.mu.Unlock()
	return nil
}
