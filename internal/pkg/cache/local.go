package cache

import (
	"context"
	"sync"
	"time"
)

type localEntry struct {
	value     string
	expiresAt time.Time
}

// LocalLocker is an in-process Locker for single-node deployments and tests.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]localEntry
	now   func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		locks: make(map[string]localEntry),
		now:   time.Now,
	}
}

func (l *LocalLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if e, ok := l.locks[key]; ok && now.Before(e.expiresAt) {
		return false, nil
	}
	l.locks[key] = localEntry{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

func (l *LocalLocker) ReleaseLock(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.locks[key]; ok && e.value == value {
		delete(l.locks, key)
	}
	return nil
}
