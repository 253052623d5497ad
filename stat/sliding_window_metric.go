// Package stat wraps the leap array primitives in stat/base into the
// dual-window shape every node keeps (spec §4.3: "Two leap arrays per
// ClusterNode and OriginNode by default: a short one ... for real-time
// rate decisions, and a long one ... for minute-granularity reporting").
package stat

import (
	"sync/atomic"

	"github.com/jspang582/flowguard/clock"
	sbase "github.com/jspang582/flowguard/stat/base"
)

// SlidingWindowMetric is the statistics engine half of base.StatNode: it
// implements everything except the thread-count gauge, which node.go
// layers on top (thread count isn't bucketed, it's a live counter).
type SlidingWindowMetric struct {
	realtime  *sbase.LeapArray
	reporting *sbase.LeapArray
	now       func() int64
}

// New builds a SlidingWindowMetric with the given short/long window specs.
// nowFn defaults to clock.Real.NowMs-equivalent when nil; tests inject a
// fake clock's NowMs directly so bucket math is deterministic.
func New(shortSampleCount int, shortIntervalMs int64, longSampleCount int, longIntervalMs int64, rtCeiling int64, nowFn func() int64) *SlidingWindowMetric {
	if nowFn == nil {
		nowFn = clock.Real.NowMs
	}
	return &SlidingWindowMetric{
		realtime:  sbase.NewLeapArray(shortSampleCount, shortIntervalMs, rtCeiling),
		reporting: sbase.NewLeapArray(longSampleCount, longIntervalMs, rtCeiling),
		now:       nowFn,
	}
}

func (m *SlidingWindowMetric) AddPass(n int64) {
	now := m.now()
	m.realtime.CurrentBucket(now).AddPass(n)
	m.reporting.CurrentBucket(now).AddPass(n)
}

func (m *SlidingWindowMetric) AddBlock(n int64) {
	now := m.now()
	m.realtime.CurrentBucket(now).AddBlock(n)
	m.reporting.CurrentBucket(now).AddBlock(n)
}

func (m *SlidingWindowMetric) AddException(n int64) {
	now := m.now()
	m.realtime.CurrentBucket(now).AddException(n)
	m.reporting.CurrentBucket(now).AddException(n)
}

func (m *SlidingWindowMetric) AddSuccess(n int64) {
	now := m.now()
	m.realtime.CurrentBucket(now).AddSuccess(n)
	m.reporting.CurrentBucket(now).AddSuccess(n)
}

func (m *SlidingWindowMetric) AddRT(rt int64) {
	now := m.now()
	m.realtime.CurrentBucket(now).AddRT(rt)
	m.reporting.CurrentBucket(now).AddRT(rt)
}

func (m *SlidingWindowMetric) AddOccupiedPass(n int64) {
	m.realtime.CurrentBucket(m.now()).AddOccupiedPass(n)
}

// sumLong aggregates the long (reporting) window — spec's pass()/block()/etc.
func (m *SlidingWindowMetric) sumLong(f func(*sbase.MetricBucket) int64) int64 {
	var total int64
	for _, b := range m.reporting.ValidBuckets(m.now()) {
		total += f(b)
	}
	return total
}

func (m *SlidingWindowMetric) Pass() int64      { return m.sumLong((*sbase.MetricBucket).Pass) }
func (m *SlidingWindowMetric) Block() int64     { return m.sumLong((*sbase.MetricBucket).Block) }
func (m *SlidingWindowMetric) Exception() int64 { return m.sumLong((*sbase.MetricBucket).Exception) }
func (m *SlidingWindowMetric) Success() int64   { return m.sumLong((*sbase.MetricBucket).Success) }

func (m *SlidingWindowMetric) AvgRT() float64 {
	var rtSum, successN int64
	for _, b := range m.reporting.ValidBuckets(m.now()) {
		rtSum += b.RTSum()
		successN += b.Success()
	}
	if successN == 0 {
		return 0
	}
	return float64(rtSum) / float64(successN)
}

func (m *SlidingWindowMetric) MinRT() float64 {
	min := int64(-1)
	for _, b := range m.reporting.ValidBuckets(m.now()) {
		v := b.MinRT()
		if min == -1 || v < min {
			min = v
		}
	}
	if min == -1 {
		return 0
	}
	return float64(min)
}

// qpsOf computes count*1000/intervalMs over the realtime window (spec's
// passQps()/blockQps()/etc.).
func (m *SlidingWindowMetric) qpsOf(f func(*sbase.MetricBucket) int64) float64 {
	var total int64
	for _, b := range m.realtime.ValidBuckets(m.now()) {
		total += f(b)
	}
	return float64(total) * 1000 / float64(m.realtime.IntervalMs())
}

func (m *SlidingWindowMetric) PassQPS() float64      { return m.qpsOf((*sbase.MetricBucket).Pass) }
func (m *SlidingWindowMetric) BlockQPS() float64     { return m.qpsOf((*sbase.MetricBucket).Block) }
func (m *SlidingWindowMetric) ExceptionQPS() float64 { return m.qpsOf((*sbase.MetricBucket).Exception) }
func (m *SlidingWindowMetric) SuccessQPS() float64   { return m.qpsOf((*sbase.MetricBucket).Success) }
func (m *SlidingWindowMetric) OccupiedPassQPS() float64 {
	return m.qpsOf((*sbase.MetricBucket).OccupiedPass)
}

// PreviousWindowPass returns the pass count from the realtime window's
// bucket one window back (spec §4.3, used by the warm-up shaper).
func (m *SlidingWindowMetric) PreviousWindowPass() int64 {
	b := m.realtime.PreviousWindowBucket(m.now())
	if b == nil {
		return 0
	}
	return b.Pass()
}

func (m *SlidingWindowMetric) Reset() {
	m.realtime.Reset()
	m.reporting.Reset()
}

// threadCount is a plain atomic gauge, not bucketed — embedded by node
// implementations alongside a *SlidingWindowMetric.
type ThreadCount struct {
	n int32
}

func (t *ThreadCount) Increase() { atomic.AddInt32(&t.n, 1) }
func (t *ThreadCount) Decrease() { atomic.AddInt32(&t.n, -1) }
func (t *ThreadCount) Current() int32 { return atomic.LoadInt32(&t.n) }
