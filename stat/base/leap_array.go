package base

import "go.uber.org/atomic"

// BucketWrap pairs a bucket's window-start timestamp with its counters.
// Resetting a stale bucket replaces both atomically from a reader's point
// of view: the start timestamp is CAS-advanced first (which is what makes
// the slot "claimed" by exactly one writer), then the counters are zeroed
// in place. A reader that observes the new startMs before the zeroing
// finishes can undercount by at most one bucket-length, which matches the
// spec's documented eventual-consistency guarantee (spec §5, "Ordering
// guarantees").
type BucketWrap struct {
	startMs atomic.Int64
	bucket  *MetricBucket
}

func newBucketWrap(startMs, ceiling int64) *BucketWrap {
	w := &BucketWrap{bucket: NewMetricBucket(ceiling)}
	w.startMs.Store(startMs)
	return w
}

// LeapArray is a fixed-size ring of buckets covering a sliding window of
// total length intervalMs, divided into sampleCount buckets (spec §3,
// "Leap array").
type LeapArray struct {
	bucketLengthMs int64
	sampleCount    int
	intervalMs     int64
	rtCeiling      int64
	array          []*BucketWrap
}

// NewLeapArray builds a LeapArray. rtCeiling is the "no samples yet"
// sentinel minRT starts at (spec's STATISTIC_MAX_RT, config.DefaultStatisticMaxRt).
func NewLeapArray(sampleCount int, intervalMs int64, rtCeiling int64) *LeapArray {
	bucketLengthMs := intervalMs / int64(sampleCount)
	array := make([]*BucketWrap, sampleCount)
	for i := range array {
		array[i] = newBucketWrap(0, rtCeiling)
	}
	return &LeapArray{
		bucketLengthMs: bucketLengthMs,
		sampleCount:    sampleCount,
		intervalMs:     intervalMs,
		rtCeiling:      rtCeiling,
		array:          array,
	}
}

func (la *LeapArray) calculateStartMs(nowMs int64) int64 {
	return nowMs - (nowMs % la.bucketLengthMs)
}

func (la *LeapArray) idx(nowMs int64) int {
	return int((nowMs / la.bucketLengthMs) % int64(la.sampleCount))
}

// CurrentBucket returns the bucket owning "now", recycling it first if its
// stored start timestamp has gone stale (spec §4.3 bucket-selection
// contract).
func (la *LeapArray) CurrentBucket(nowMs int64) *MetricBucket {
	wrap := la.array[la.idx(nowMs)]
	wantStart := la.calculateStartMs(nowMs)

	for {
		cur := wrap.startMs.Load()
		switch {
		case cur == wantStart:
			return wrap.bucket
		case cur < wantStart:
			if wrap.startMs.CAS(cur, wantStart) {
				wrap.bucket.reset(la.rtCeiling)
				return wrap.bucket
			}
			// another writer won the race to recycle this slot; retry.
		default:
			// cur > wantStart: a writer ahead of us already claimed the
			// next cycle (clock skew or a slow reader). startMs never
			// moves backwards, so waiting cannot help: the update lands
			// in that newer bucket.
			return wrap.bucket
		}
	}
}

// ValidBuckets returns every bucket whose window has not fully expired as
// of now (spec §8 invariant 3: buckets older than intervalMs contribute
// zero).
func (la *LeapArray) ValidBuckets(nowMs int64) []*MetricBucket {
	out := make([]*MetricBucket, 0, la.sampleCount)
	for _, wrap := range la.array {
		start := wrap.startMs.Load()
		if nowMs-start <= la.intervalMs {
			out = append(out, wrap.bucket)
		}
	}
	return out
}

// PreviousWindowBucket returns the bucket whose window started exactly one
// full bucketLengthMs before the current one's start — used by the
// warm-up shaper's previousWindowPass (spec §4.3).
func (la *LeapArray) PreviousWindowBucket(nowMs int64) *MetricBucket {
	prevMs := nowMs - la.bucketLengthMs
	if prevMs < 0 {
		return nil
	}
	wrap := la.array[la.idx(prevMs)]
	wantStart := la.calculateStartMs(prevMs)
	if wrap.startMs.Load() != wantStart {
		return nil
	}
	return wrap.bucket
}

func (la *LeapArray) IntervalMs() int64   { return la.intervalMs }
func (la *LeapArray) BucketLengthMs() int64 { return la.bucketLengthMs }
func (la *LeapArray) SampleCount() int    { return la.sampleCount }

// Reset zeroes every bucket in place, used when a circuit breaker
// transitions back to CLOSED after a successful half-open probe.
func (la *LeapArray) Reset() {
	for _, wrap := range la.array {
		wrap.startMs.Store(0)
		wrap.bucket.reset(la.rtCeiling)
	}
}
