package sqlitesource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/property"
)

type testRule struct {
	Resource string `json:"resource"`
	Count    int    `json:"count"`
}

func TestSource_PublishThenConfigLoadRoundTrips(t *testing.T) {
	src, err := Open[testRule](":memory:", "flow", time.Hour)
	require.NoError(t, err)
	defer src.Close()

	rules, err := src.ConfigLoad()
	require.NoError(t, err)
	require.Empty(t, rules, "no row published yet")

	require.NoError(t, src.Publish(context.Background(), []testRule{{Resource: "checkout", Count: 5}}))

	rules, err = src.ConfigLoad()
	require.NoError(t, err)
	require.Equal(t, []testRule{{Resource: "checkout", Count: 5}}, rules)
}

func TestSource_WatchNotifiesOnVersionBump(t *testing.T) {
	src, err := Open[testRule](":memory:", "flow", 10*time.Millisecond)
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.Publish(context.Background(), []testRule{{Resource: "checkout", Count: 5}}))

	updates := make(chan []testRule, 4)
	listener := property.ListenerFunc[testRule](func(rules []testRule) { updates <- rules })
	require.NoError(t, src.Watch(listener))
	require.Equal(t, []testRule{{Resource: "checkout", Count: 5}}, <-updates)

	require.NoError(t, src.Publish(context.Background(), []testRule{{Resource: "checkout", Count: 10}}))

	select {
	case rules := <-updates:
		require.Equal(t, []testRule{{Resource: "checkout", Count: 10}}, rules)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the poll loop to pick up the version bump")
	}
}
