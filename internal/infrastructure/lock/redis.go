// Package lock serializes in-flight requests that share an attempt key.
package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "hyperswitch:lock:"

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Connect connects to the redis server and returns the client.
func Connect(ctx context.Context, uri, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     uri,
		Password: password,
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

type RedisLocker struct {
	client *redis.Client
	logger *slog.Logger
}

var _ application.KeyLocker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{client: client, logger: logger}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, application.ErrLockHeld
	}

	release := func(ctx context.Context) {
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("failed to release lock", "key", key, "error", err)
		}
	}
	return release, nil
}
