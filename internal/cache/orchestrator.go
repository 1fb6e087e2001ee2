package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// now is a small indirection to allow test stubbing.
var now = time.Now

// State is what a consumer of an Orchestrator can observe.
type State int

const (
	// StateLoading means a fetch is in flight and no usable record exists.
	StateLoading State = iota
	// StateError means the fetch failed and no usable record exists.
	StateError
	// StateReady means a usable record is available.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is the result of one evaluation.
type Snapshot[T any] struct {
	State       State
	Payload     T
	Err         error
	LastUpdated time.Time
	// FromCache is true when Payload came from a fresh stored record and no
	// fetch ran.
	FromCache bool
}

var errAbandoned = errors.New("fetch abandoned: no caller waiting")

// Fetcher loads a payload from the remote source.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Orchestrator decides, per evaluation, whether the stored record under key is
// usable or a fetch has to run, and writes fetched payloads back.
//
// Concurrent evaluations of the same Orchestrator share one in-flight fetch.
type Orchestrator[T any] struct {
	key    string
	store  *Store[T]
	stale  ExpiryPolicy
	fetch  Fetcher[T]
	logger logrus.FieldLogger

	inflight singleflight.Group
	waitMu   sync.Mutex
	waiters  int

	mu        sync.RWMutex
	current   Snapshot[T]
	observers []func(Snapshot[T])
}

// NewOrchestrator wires a key, its store, its expiry policy and its fetcher.
func NewOrchestrator[T any](key string, store *Store[T], stale ExpiryPolicy, fetch Fetcher[T], logger logrus.FieldLogger) *Orchestrator[T] {
	return &Orchestrator[T]{
		key:     key,
		store:   store,
		stale:   stale,
		fetch:   fetch,
		logger:  logger.WithField("key", key),
		current: Snapshot[T]{State: StateLoading},
	}
}

// Key returns the storage key the orchestrator manages.
func (o *Orchestrator[T]) Key() string {
	return o.key
}

// Subscribe registers fn to be called on every state change.
func (o *Orchestrator[T]) Subscribe(fn func(Snapshot[T])) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// Current returns the most recently published snapshot.
func (o *Orchestrator[T]) Current() Snapshot[T] {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Skip reports whether a fetch would be skipped right now because a fresh
// record is stored. Staleness is always computed against the current clock.
func (o *Orchestrator[T]) Skip(ctx context.Context) bool {
	_, ok := o.usable(ctx)
	return ok
}

// Evaluate serves a fresh stored record when there is one, otherwise runs the
// fetcher and writes its result back with the current time.
func (o *Orchestrator[T]) Evaluate(ctx context.Context) Snapshot[T] {
	if rec, ok := o.usable(ctx); ok {
		o.logger.Debug("serving cached record")
		return o.publish(Snapshot[T]{
			State:       StateReady,
			Payload:     rec.Payload,
			LastUpdated: rec.LastUpdated(),
			FromCache:   true,
		})
	}

	o.publish(Snapshot[T]{State: StateLoading})

	o.wait(1)
	flight := o.inflight.DoChan(o.key, func() (any, error) {
		return o.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		o.wait(-1)
		err := fmt.Errorf("fetch abandoned: %w", ctx.Err())
		o.logger.Debug("caller left before the fetch finished")
		return o.publish(Snapshot[T]{State: StateError, Err: err})
	case res := <-flight:
		o.wait(-1)
		if res.Shared {
			o.logger.Debug("joined in-flight fetch")
		}
		if res.Err != nil {
			o.logger.WithField("error", res.Err).Warn("fetch failed")
			return o.publish(Snapshot[T]{State: StateError, Err: res.Err})
		}
		rec := res.Val.(Record[T])
		return o.publish(Snapshot[T]{
			State:       StateReady,
			Payload:     rec.Payload,
			LastUpdated: rec.LastUpdated(),
		})
	}
}

// Invalidate clears the stored record so the next evaluation fetches.
func (o *Orchestrator[T]) Invalidate(ctx context.Context) error {
	return o.store.Clear(ctx, o.key)
}

func (o *Orchestrator[T]) usable(ctx context.Context) (Record[T], bool) {
	rec, ok := o.store.Read(ctx, o.key).Get()
	if !ok {
		return rec, false
	}
	if o.stale(rec.LastUpdatedTs, now()) {
		o.logger.WithField("last_updated_ts", rec.LastUpdatedTs).Debug("cached record is stale")
		return rec, false
	}
	return rec, true
}

// refresh fetches and stores a new record. ctx is detached from the caller
// that started the flight; when every caller has gone by the time the fetch
// returns, nothing is written.
func (o *Orchestrator[T]) refresh(ctx context.Context) (Record[T], error) {
	payload, err := o.fetch(ctx)
	if err != nil {
		return Record[T]{}, err
	}
	if o.waiting() == 0 {
		o.logger.Debug("discarding fetch result, no caller is waiting")
		return Record[T]{}, errAbandoned
	}

	rec := NewRecord(payload, now())
	if err := o.store.Write(ctx, o.key, rec); err != nil {
		return Record[T]{}, err
	}
	o.logger.Info("cache refreshed")
	return rec, nil
}

// wait adjusts the number of callers waiting on the in-flight fetch.
func (o *Orchestrator[T]) wait(delta int) {
	o.waitMu.Lock()
	o.waiters += delta
	o.waitMu.Unlock()
}

func (o *Orchestrator[T]) waiting() int {
	o.waitMu.Lock()
	defer o.waitMu.Unlock()
	return o.waiters
}

func (o *Orchestrator[T]) publish(s Snapshot[T]) Snapshot[T] {
	o.mu.Lock()
	o.current = s
	observers := make([]func(Snapshot[T]), len(o.observers))
	copy(observers, o.observers)
	o.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
	return s
}
