package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the minimal TTL cache contract used by services that memoise
// expensive external lookups (analytics queries, CDN folder listings). Entries
// carry an explicit expiry; Get must not return values past their TTL.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
