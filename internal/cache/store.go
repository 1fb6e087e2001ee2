package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// ErrEncode is returned by Store.Write when a record cannot be serialized.
var ErrEncode = errors.New("cache: encode record")

// Store persists Records of one payload type as JSON in a Storage.
type Store[T any] struct {
	storage Storage
	logger  logrus.FieldLogger
}

// NewStore creates a Store on top of storage.
func NewStore[T any](storage Storage, logger logrus.FieldLogger) *Store[T] {
	return &Store[T]{
		storage: storage,
		logger:  logger,
	}
}

// Read returns the last record written under key. Missing keys, storage
// failures and undecodable bytes all come back as None.
func (s *Store[T]) Read(ctx context.Context, key string) mo.Option[Record[T]] {
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Warn("cache read failed")
		return mo.None[Record[T]]()
	}
	if !ok {
		s.logger.WithField("key", key).Debug("cache miss")
		return mo.None[Record[T]]()
	}

	var rec Record[T]
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.WithFields(logrus.Fields{"key": key, "error": err}).Debug("discarding undecodable cache entry")
		return mo.None[Record[T]]()
	}
	return mo.Some(rec)
}

// Write replaces whatever is stored under key with rec.
func (s *Store[T]) Write(ctx context.Context, key string, rec Record[T]) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrEncode, key, err)
	}
	if err := s.storage.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}
	s.logger.WithFields(logrus.Fields{"key": key, "last_updated_ts": rec.LastUpdatedTs}).Debug("cache written")
	return nil
}

// Clear removes the record under key, if any.
func (s *Store[T]) Clear(ctx context.Context, key string) error {
	if err := s.storage.Remove(ctx, key); err != nil {
		return fmt.Errorf("cache: clear %q: %w", key, err)
	}
	return nil
}
