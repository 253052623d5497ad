package circuitbreaker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreaker_ExceptionRatioOpensAfterMinRequestAmount(t *testing.T) {
	rule := &Rule{
		Resource:           "payments",
		Grade:              GradeExceptionRatio,
		Count:              0.5,
		TimeWindowSec:      10,
		MinRequestAmount:   4,
		StatIntervalMs:     1000,
	}
	require.NoError(t, rule.IsValid())
	b := NewBreaker(rule)

	// three calls, two bad: below MinRequestAmount, must not trip yet.
	for _, bad := range []bool{true, true, false} {
		pass, isProbe := b.TryPass(0)
		require.True(t, pass)
		require.False(t, isProbe)
		if bad {
			b.OnComplete(0, isProbe, 0, errors.New("boom"))
		} else {
			b.OnComplete(0, isProbe, 0, nil)
		}
	}
	require.Equal(t, StateClosed, b.State())

	// a fourth call crosses MinRequestAmount with a 3/4 exception ratio.
	pass, isProbe := b.TryPass(0)
	require.True(t, pass)
	b.OnComplete(0, isProbe, 0, errors.New("boom"))
	require.Equal(t, StateOpen, b.State())
}

func TestBreaker_OpenBlocksUntilTimeWindowThenProbes(t *testing.T) {
	rule := &Rule{
		Resource:         "payments",
		Grade:            GradeExceptionCount,
		Count:            1,
		TimeWindowSec:    5,
		MinRequestAmount: 1,
	}
	require.NoError(t, rule.IsValid())
	b := NewBreaker(rule)

	pass, isProbe := b.TryPass(0)
	require.True(t, pass)
	b.OnComplete(0, isProbe, 0, errors.New("boom"))
	require.Equal(t, StateOpen, b.State())

	pass, _ = b.TryPass(1000)
	require.False(t, pass, "still within the recovery window")

	pass, isProbe = b.TryPass(5000)
	require.True(t, pass)
	require.True(t, isProbe, "first call after the recovery window is the half-open probe")
	require.Equal(t, StateHalfOpen, b.State())

	pass, _ = b.TryPass(5001)
	require.False(t, pass, "only one probe call is admitted while half-open")
}

func TestBreaker_SuccessfulProbeClosesAndResetsStats(t *testing.T) {
	rule := &Rule{Resource: "payments", Grade: GradeExceptionCount, Count: 1, TimeWindowSec: 5, MinRequestAmount: 1}
	require.NoError(t, rule.IsValid())
	b := NewBreaker(rule)

	_, isProbe := b.TryPass(0)
	b.OnComplete(0, isProbe, 0, errors.New("boom"))
	require.Equal(t, StateOpen, b.State())

	_, isProbe = b.TryPass(5000)
	require.True(t, isProbe)
	b.OnComplete(5000, isProbe, 0, nil)
	require.Equal(t, StateClosed, b.State())

	pass, isProbe := b.TryPass(5001)
	require.True(t, pass)
	require.False(t, isProbe)
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	rule := &Rule{Resource: "payments", Grade: GradeExceptionCount, Count: 1, TimeWindowSec: 5, MinRequestAmount: 1}
	require.NoError(t, rule.IsValid())
	b := NewBreaker(rule)

	_, isProbe := b.TryPass(0)
	b.OnComplete(0, isProbe, 0, errors.New("boom"))

	_, isProbe = b.TryPass(5000)
	require.True(t, isProbe)
	b.OnComplete(5000, isProbe, 0, errors.New("still failing"))
	require.Equal(t, StateOpen, b.State())
}

func TestBreaker_AvgRTClassifiesOnRTAlone(t *testing.T) {
	rule := &Rule{
		Resource:           "search",
		Grade:              GradeAvgRT,
		Count:              100,
		TimeWindowSec:      10,
		MinRequestAmount:   2,
		SlowRatioThreshold: 0.5,
	}
	require.NoError(t, rule.IsValid())
	b := NewBreaker(rule)

	pass, isProbe := b.TryPass(0)
	require.True(t, pass)
	b.OnComplete(0, isProbe, 200, nil) // slow, but no error: still "bad" for AVG_RT

	pass, isProbe = b.TryPass(0)
	require.True(t, pass)
	b.OnComplete(0, isProbe, 200, nil)

	require.Equal(t, StateOpen, b.State())
}
