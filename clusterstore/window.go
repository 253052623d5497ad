package clusterstore

import (
	"fmt"
	"time"
)

// WindowFor computes the fixed-length bucket containing nowMs for a
// window of windowMs milliseconds, by truncating the epoch to a
// windowMs-aligned boundary. Unlike a handful of fixed calendar units
// (per-minute, per-hour, per-day, per-month), this supports the
// arbitrary window lengths flow rules declare (SPEC_FULL.md §4.4's
// ClusterMode windowMs is a free-form rule parameter, not one of a
// fixed set).
func WindowFor(nowMs, windowMs int64) Window {
	start := nowMs - nowMs%windowMs
	return Window{
		Duration:    time.Duration(windowMs) * time.Millisecond,
		BucketKey:   fmt.Sprintf("%d", start),
		BucketStart: time.UnixMilli(start),
	}
}
