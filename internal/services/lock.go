package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker hands out short-lived named locks shared between processes.
type Locker interface {
	// AcquireLock returns false when another owner holds key.
	AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error)
	// ReleaseLock deletes key only if owner still holds it.
	ReleaseLock(ctx context.Context, key, owner string) error
}

// LockKey namespaces a lock name.
func LockKey(name string) string {
	return "yadc:lock:" + name
}

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

var _ Locker = (*RedisService)(nil)

func (r *RedisService) AcquireLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, owner, ttl).Result()
}

func (r *RedisService) ReleaseLock(ctx context.Context, key, owner string) error {
	return releaseScript.Run(ctx, r.client, []string{key}, owner).Err()
}
