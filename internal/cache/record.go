package cache

import "time"

// Well-known storage keys, one per cached dataset.
const (
	KeyCountries     = "ac_countries"
	KeyExchangeRates = "ac_exchange_rates"
)

// Record is a cached payload stamped with the time it was written.
// A record is replaced wholesale on every write and never patched in place.
type Record[T any] struct {
	LastUpdatedTs int64 `json:"lastUpdatedTs"` // epoch millis
	Payload       T     `json:"payload"`
}

// NewRecord stamps payload with at.
func NewRecord[T any](payload T, at time.Time) Record[T] {
	return Record[T]{
		LastUpdatedTs: at.UnixMilli(),
		Payload:       payload,
	}
}

// LastUpdated returns the write time as a time.Time.
func (r Record[T]) LastUpdated() time.Time {
	return time.UnixMilli(r.LastUpdatedTs)
}
