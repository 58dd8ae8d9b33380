package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes access to a simulation id across processes.
// In-process serialization is handled by the session registry itself;
// a Locker is only needed when several processes share a state store.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
