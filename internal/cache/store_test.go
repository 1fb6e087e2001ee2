package cache

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore[[]sample](newMapStorage(), quietLogger())

	rec := NewRecord([]sample{{Name: "a", Count: 1, Tags: []string{"x"}}, {Name: "b"}}, time.UnixMilli(1_234_567))
	require.NoError(t, store.Write(ctx, "k", rec))

	got, ok := store.Read(ctx, "k").Get()
	require.True(t, ok)
	require.Equal(t, rec, got)
	require.Equal(t, int64(1_234_567), got.LastUpdatedTs)
}

func TestStore_WireFormat(t *testing.T) {
	ctx := context.Background()
	storage := newMapStorage()
	store := NewStore[int](storage, quietLogger())

	require.NoError(t, store.Write(ctx, "k", NewRecord(7, time.UnixMilli(42))))
	require.JSONEq(t, `{"lastUpdatedTs":42,"payload":7}`, storage.data["k"])
}

func TestStore_ReadAbsent(t *testing.T) {
	store := NewStore[int](newMapStorage(), quietLogger())
	require.True(t, store.Read(context.Background(), "missing").IsAbsent())
}

func TestStore_ReadCorrupted(t *testing.T) {
	storage := newMapStorage()
	storage.data["k"] = "{not json"
	store := NewStore[int](storage, quietLogger())

	require.True(t, store.Read(context.Background(), "k").IsAbsent())
}

func TestStore_ReadStorageFailure(t *testing.T) {
	storage := newMapStorage()
	storage.data["k"] = `{"lastUpdatedTs":1,"payload":1}`
	storage.failGet = errBoom
	store := NewStore[int](storage, quietLogger())

	require.True(t, store.Read(context.Background(), "k").IsAbsent())
}

func TestStore_WriteEncodeFailure(t *testing.T) {
	store := NewStore[float64](newMapStorage(), quietLogger())
	err := store.Write(context.Background(), "k", NewRecord(math.NaN(), time.Now()))
	require.ErrorIs(t, err, ErrEncode)
}

func TestStore_WriteStorageFailure(t *testing.T) {
	storage := newMapStorage()
	storage.failSet = errBoom
	store := NewStore[int](storage, quietLogger())

	err := store.Write(context.Background(), "k", NewRecord(1, time.Now()))
	require.ErrorIs(t, err, errBoom)
}

func TestStore_WriteReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewStore[string](newMapStorage(), quietLogger())

	require.NoError(t, store.Write(ctx, "k", NewRecord("old", time.UnixMilli(1))))
	require.NoError(t, store.Write(ctx, "k", NewRecord("new", time.UnixMilli(2))))

	got := store.Read(ctx, "k").MustGet()
	require.Equal(t, "new", got.Payload)
	require.Equal(t, int64(2), got.LastUpdatedTs)
}

func TestStore_ClearIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore[int](newMapStorage(), quietLogger())

	require.NoError(t, store.Write(ctx, "k", NewRecord(1, time.Now())))
	require.NoError(t, store.Clear(ctx, "k"))
	require.NoError(t, store.Clear(ctx, "k"))
	require.True(t, store.Read(ctx, "k").IsAbsent())
}
