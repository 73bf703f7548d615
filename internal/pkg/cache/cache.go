package cache

import (
	"context"
	"time"
)

// Locker hands out short-lived exclusive locks. A lock is released only by the
// holder of the matching value.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
