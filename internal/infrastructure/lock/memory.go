package lock

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
)

// MemoryLocker is a single-process KeyLocker. Entries expire after their TTL.
type MemoryLocker struct {
	mu      sync.Mutex
	held    map[string]memoryEntry
	seq     uint64
	nowFunc func() time.Time
}

type memoryEntry struct {
	token     uint64
	expiresAt time.Time
}

var _ application.KeyLocker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held:    make(map[string]memoryEntry),
		nowFunc: time.Now,
	}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if entry, ok := l.held[key]; ok && now.Before(entry.expiresAt) {
		return nil, application.ErrLockHeld
	}

	l.seq++
	token := l.seq
	l.held[key] = memoryEntry{token: token, expiresAt: now.Add(ttl)}

	return func(context.Context) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if entry, ok := l.held[key]; ok && entry.token == token {
			delete(l.held, key)
		}
	}, nil
}
