package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrLockNotAcquired = errors.New("system busy, please try again later (lock)")

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	lockBackoff  = 100 * time.Millisecond
)

// WithLock runs fn while holding key. It gives up with ErrLockNotAcquired after a few attempts.
func WithLock(ctx context.Context, l Locker, key string, fn func() error) error {
	value := uuid.New().String()

	acquired := false
	var lastErr error
	for i := 0; i < lockAttempts; i++ {
		ok, err := l.AcquireLock(ctx, key, value, lockTTL)
		if err != nil {
			lastErr = err
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	if !acquired {
		if lastErr != nil {
			return fmt.Errorf("%w: %v", ErrLockNotAcquired, lastErr)
		}
		return ErrLockNotAcquired
	}

	// Release with a fresh context so a cancelled request still frees the key.
	defer l.ReleaseLock(context.WithoutCancel(ctx), key, value)

	return fn()
}

func StockLockKey(itemCode string) string {
	return "lock:stock:" + itemCode
}
