package cluster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/clusterstore"
)

func TestStoreTokenClient_GrantsUpToThresholdThenDenies(t *testing.T) {
	now := int64(1000)
	c := NewStoreTokenClient(clusterstore.NewMemoryStore(), func() int64 { return now })

	granted, err := c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
	require.NoError(t, err)
	require.True(t, granted)

	granted, err = c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
	require.NoError(t, err)
	require.False(t, granted, "third request exceeds the shared threshold of 2")
}

func TestStoreTokenClient_WindowRolloverGrantsAgain(t *testing.T) {
	now := int64(1000)
	c := NewStoreTokenClient(clusterstore.NewMemoryStore(), func() int64 { return now })

	for i := 0; i < 2; i++ {
		granted, err := c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
		require.NoError(t, err)
		require.True(t, granted)
	}
	granted, _ := c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
	require.False(t, granted)

	now = 61000 // next window
	granted, err := c.TryAcquire(context.Background(), "checkout", 1, 2, 60000)
	require.NoError(t, err)
	require.True(t, granted, "a fresh window resets the shared counter")
}
