package cache

import "context"

// Storage is the durable string key/value store records are persisted in.
// Get reports ok=false for a key that was never written or was removed.
// Remove of a missing key is a no-op.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
