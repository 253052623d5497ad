package clusterstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_IncrementByAccumulatesWithinSameBucket(t *testing.T) {
	s := NewMemoryStore()
	w := WindowFor(1000, 60000)

	cur, err := s.IncrementBy(context.Background(), "checkout", w, 3)
	require.NoError(t, err)
	require.Equal(t, int64(3), cur)

	cur, err = s.IncrementBy(context.Background(), "checkout", w, 2)
	require.NoError(t, err)
	require.Equal(t, int64(5), cur)
}

func TestMemoryStore_BucketRolloverResetsCounter(t *testing.T) {
	s := NewMemoryStore()
	w1 := WindowFor(1000, 60000)
	w2 := WindowFor(61000, 60000)
	require.NotEqual(t, w1.BucketKey, w2.BucketKey)

	_, err := s.IncrementBy(context.Background(), "checkout", w1, 5)
	require.NoError(t, err)

	cur, err := s.IncrementBy(context.Background(), "checkout", w2, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), cur, "a new window bucket starts the counter over")
}

func TestMemoryStore_GetReadsWithoutMutating(t *testing.T) {
	s := NewMemoryStore()
	w := WindowFor(1000, 60000)
	_, err := s.IncrementBy(context.Background(), "checkout", w, 4)
	require.NoError(t, err)

	cur, err := s.Get(context.Background(), "checkout", w)
	require.NoError(t, err)
	require.Equal(t, int64(4), cur)

	cur, err = s.Get(context.Background(), "checkout", w)
	require.NoError(t, err)
	require.Equal(t, int64(4), cur)
}

func TestMemoryStore_GetOnUnknownKeyIsZero(t *testing.T) {
	s := NewMemoryStore()
	cur, err := s.Get(context.Background(), "never-seen", WindowFor(1000, 60000))
	require.NoError(t, err)
	require.Equal(t, int64(0), cur)
}

func TestMemoryStore_ResetClearsCounter(t *testing.T) {
	s := NewMemoryStore()
	w := WindowFor(1000, 60000)
	_, err := s.IncrementBy(context.Background(), "checkout", w, 4)
	require.NoError(t, err)

	require.NoError(t, s.Reset(context.Background(), "checkout"))

	cur, err := s.Get(context.Background(), "checkout", w)
	require.NoError(t, err)
	require.Equal(t, int64(0), cur)
}

func TestWindowFor_TruncatesToWindowAlignedBoundary(t *testing.T) {
	w := WindowFor(65432, 60000)
	require.Equal(t, "60000", w.BucketKey)
}
