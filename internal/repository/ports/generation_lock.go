package ports

import (
	"context"
	"time"
)

// GenerationLock serialises trip generation per user. Acquire returns false
// without error when another generation holds the key.
type GenerationLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}
