// Package base provides the leap array: a ring of counter buckets
// covering a sliding time window (spec §3 "Leap array", §4.3 "Statistics
// Engine"). It is the lowest layer of the statistics engine — everything
// in package stat is a thin, metric-shaped view over a LeapArray.
package base

import "go.uber.org/atomic"

// MetricBucket holds the counters for one bucket-interval (spec §3,
// "Metric bucket"). All fields are lock-free atomics so AddX calls never
// block a concurrent writer on the same bucket.
type MetricBucket struct {
	pass          atomic.Int64
	block         atomic.Int64
	exception     atomic.Int64
	success       atomic.Int64
	rtSum         atomic.Int64
	minRT         atomic.Int64
	occupiedPass  atomic.Int64
}

// NewMetricBucket returns a zeroed bucket with minRT primed to "unset"
// (spec's statistic_max_rt ceiling — the first AddRT always lowers it).
func NewMetricBucket(ceiling int64) *MetricBucket {
	b := &MetricBucket{}
	b.minRT.Store(ceiling)
	return b
}

func (b *MetricBucket) AddPass(n int64)      { b.pass.Add(n) }
func (b *MetricBucket) AddBlock(n int64)     { b.block.Add(n) }
func (b *MetricBucket) AddException(n int64) { b.exception.Add(n) }
func (b *MetricBucket) AddSuccess(n int64)   { b.success.Add(n) }
func (b *MetricBucket) AddOccupiedPass(n int64) { b.occupiedPass.Add(n) }

func (b *MetricBucket) AddRT(rt int64) {
	b.rtSum.Add(rt)
	for {
		cur := b.minRT.Load()
		if rt >= cur {
			return
		}
		if b.minRT.CAS(cur, rt) {
			return
		}
	}
}

func (b *MetricBucket) Pass() int64         { return b.pass.Load() }
func (b *MetricBucket) Block() int64        { return b.block.Load() }
func (b *MetricBucket) Exception() int64    { return b.exception.Load() }
func (b *MetricBucket) Success() int64      { return b.success.Load() }
func (b *MetricBucket) RTSum() int64        { return b.rtSum.Load() }
func (b *MetricBucket) MinRT() int64        { return b.minRT.Load() }
func (b *MetricBucket) OccupiedPass() int64 { return b.occupiedPass.Load() }

// reset zeroes every counter in place; used when a stale bucket slot is
// recycled (spec §4.3, bucket CAS reset).
func (b *MetricBucket) reset(ceiling int64) {
	b.pass.Store(0)
	b.block.Store(0)
	b.exception.Store(0)
	b.success.Store(0)
	b.rtSum.Store(0)
	b.minRT.Store(ceiling)
	b.occupiedPass.Store(0)
}
