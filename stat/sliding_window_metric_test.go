package stat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlidingWindowMetric_PassQPSUsesRealtimeWindow(t *testing.T) {
	now := int64(100000)
	m := New(2, 1000, 60, 60000, 4900, func() int64 { return now })

	m.AddPass(3)
	now += 600
	m.AddPass(2)

	require.Equal(t, int64(5), m.Pass())
	require.InDelta(t, 5000.0/1000, m.PassQPS(), 0.001)
}

func TestSlidingWindowMetric_AvgRTOverSuccessfulCallsOnly(t *testing.T) {
	now := int64(100000)
	m := New(2, 1000, 60, 60000, 4900, func() int64 { return now })

	m.AddSuccess(1)
	m.AddRT(10)
	m.AddSuccess(1)
	m.AddRT(30)

	require.InDelta(t, 20.0, m.AvgRT(), 0.001)
}

func TestSlidingWindowMetric_AvgRTZeroWhenNoSuccess(t *testing.T) {
	now := int64(100000)
	m := New(2, 1000, 60, 60000, 4900, func() int64 { return now })
	require.Equal(t, 0.0, m.AvgRT())
}

func TestSlidingWindowMetric_PreviousWindowPassReadsPriorBucket(t *testing.T) {
	now := int64(100000)
	m := New(2, 1000, 60, 60000, 4900, func() int64 { return now })

	m.AddPass(4)
	require.Equal(t, int64(0), m.PreviousWindowPass(), "no prior bucket yet")

	now += 500 // advance into the other realtime bucket (bucketLengthMs=500)
	require.Equal(t, int64(4), m.PreviousWindowPass())

	m.AddPass(1)
	now += 500 // the window one bucket back is now the bucket just written
	require.Equal(t, int64(1), m.PreviousWindowPass())
}

func TestSlidingWindowMetric_ResetClearsBothWindows(t *testing.T) {
	now := int64(100000)
	m := New(2, 1000, 60, 60000, 4900, func() int64 { return now })

	m.AddPass(7)
	m.AddBlock(3)
	require.Equal(t, int64(7), m.Pass())

	m.Reset()
	require.Equal(t, int64(0), m.Pass())
	require.Equal(t, int64(0), m.Block())
}

func TestThreadCount_IncreaseDecrease(t *testing.T) {
	var tc ThreadCount
	tc.Increase()
	tc.Increase()
	require.Equal(t, int32(2), tc.Current())
	tc.Decrease()
	require.Equal(t, int32(1), tc.Current())
}
