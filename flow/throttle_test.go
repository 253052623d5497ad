package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/clock"
)

func TestThrottlingController_QueuesWithinBoundThenRejectsBeyondIt(t *testing.T) {
	fake := clock.NewFake(100000)
	c := newThrottlingControllerWithRate(1, 50, fake) // 1 req/sec, 50ms max queueing

	require.True(t, c.CanPass(context.Background(), nil, 1, false), "first request always passes immediately")

	// second request arrives in the same millisecond: it must wait ~1000ms
	// to respect the 1/sec rate, far beyond the 50ms queueing bound.
	require.False(t, c.CanPass(context.Background(), nil, 1, false))
}

func TestThrottlingController_AdmitsAfterRateInterval(t *testing.T) {
	fake := clock.NewFake(100000)
	c := newThrottlingControllerWithRate(2, 10, fake) // 2 req/sec = 500ms apart, 10ms max queueing

	require.True(t, c.CanPass(context.Background(), nil, 1, false))
	fake.Advance(500 * time.Millisecond)
	require.True(t, c.CanPass(context.Background(), nil, 1, false))
}
