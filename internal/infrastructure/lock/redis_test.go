package lock_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisLocker(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	client, err := lock.Connect(ctx, addr, "")
	require.NoError(t, err)
	defer client.Close()

	l := lock.NewRedisLocker(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	release, err := l.Acquire(ctx, "t1:pay:tx:PURCHASE", 5*time.Second)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "t1:pay:tx:PURCHASE", 5*time.Second)
	assert.ErrorIs(t, err, application.ErrLockHeld)

	release(ctx)

	release, err = l.Acquire(ctx, "t1:pay:tx:PURCHASE", 5*time.Second)
	require.NoError(t, err)
	release(ctx)
}

func TestRedisLocker_ExpiresAfterTTL(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	client, err := lock.Connect(ctx, addr, "")
	require.NoError(t, err)
	defer client.Close()

	l := lock.NewRedisLocker(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err = l.Acquire(ctx, "ttl-key", 100*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		release, err := l.Acquire(ctx, "ttl-key", time.Second)
		if err != nil {
			return false
		}
		release(ctx)
		return true
	}, 3*time.Second, 50*time.Millisecond)
}
