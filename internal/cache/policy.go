package cache

import (
	"time"

	"github.com/samber/mo"
)

// Default expiry windows. Rates move much faster than country metadata.
const (
	CountryTTL      = 24 * time.Hour
	ExchangeRateTTL = 60 * time.Second
)

// ExpiryPolicy reports whether a record written at lastUpdatedTs (epoch millis)
// is stale at now.
type ExpiryPolicy func(lastUpdatedTs int64, now time.Time) bool

// TTLPolicy returns the policy that marks a record stale once its age is
// strictly greater than ttl. An age of exactly ttl is still fresh.
func TTLPolicy(ttl time.Duration) ExpiryPolicy {
	return func(lastUpdatedTs int64, now time.Time) bool {
		return now.UnixMilli()-lastUpdatedTs > ttl.Milliseconds()
	}
}

// IsStale applies TTLPolicy(ttl) to an optional record. An absent record is
// not stale: absence is a separate condition the caller checks for.
func IsStale[T any](record mo.Option[Record[T]], now time.Time, ttl time.Duration) bool {
	rec, ok := record.Get()
	if !ok {
		return false
	}
	return TTLPolicy(ttl)(rec.LastUpdatedTs, now)
}
