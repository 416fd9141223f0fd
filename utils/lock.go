package utils

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// Locker hands out cross-process locks for periodic jobs. Locks are never
// released: each key names a single tick and simply expires after its TTL,
// so a replica whose trigger fires late cannot rerun a finished tick.
type Locker interface {
	Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
}

// RedisLocker implements Locker with SET NX.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire attempts to acquire the lock. It returns false if another owner holds it.
func (l *RedisLocker) Acquire(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, LockPrefix+key, owner, ttl).Result()
}
