package circuitbreaker

import (
	"go.uber.org/atomic"

	sbase "github.com/jspang582/flowguard/stat/base"
)

// State is a breaker's position in the CLOSED→OPEN→HALF_OPEN→{CLOSED|OPEN}
// machine (spec §4.5).
type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// breakerStatSamples is the number of buckets the breaker's own
// classification window is split into; its total span is
// samples × rule.StatIntervalMs.
const breakerStatSamples = 5

const noRTCeiling = 1 << 30

// Breaker evaluates one DegradeRule's state machine. Transitions use a
// single CAS on state so "at most one observer performs each transition"
// (spec §4.5).
type Breaker struct {
	rule *Rule

	state         atomic.Int32
	openAtMs      atomic.Int64
	halfOpenProbe atomic.Bool

	stat *sbase.LeapArray
}

// NewBreaker builds a CLOSED breaker for rule.
func NewBreaker(rule *Rule) *Breaker {
	return &Breaker{
		rule: rule,
		stat: sbase.NewLeapArray(breakerStatSamples, int64(breakerStatSamples)*rule.StatIntervalMs, noRTCeiling),
	}
}

func (b *Breaker) State() State { return State(b.state.Load()) }

// TryPass decides whether a call for this resource is admitted right now,
// and whether it is the single HALF_OPEN probe (spec §4.5: "admit exactly
// one probe call").
func (b *Breaker) TryPass(nowMs int64) (pass bool, isProbe bool) {
	switch State(b.state.Load()) {
	case StateClosed:
		return true, false

	case StateOpen:
		openAt := b.openAtMs.Load()
		if nowMs-openAt < int64(b.rule.TimeWindowSec)*1000 {
			return false, false
		}
		if b.state.CAS(int32(StateOpen), int32(StateHalfOpen)) {
			b.halfOpenProbe.Store(true)
			return true, true
		}
		return false, false

	case StateHalfOpen:
		if b.halfOpenProbe.CAS(false, true) {
			return true, true
		}
		return false, false

	default:
		return false, false
	}
}

// classifyBad reports whether an outcome counts against the rule: for
// AVG_RT only RT matters (spec: "for AVG_RT: RT ≤ count" satisfies);
// for the exception grades, any error is bad.
func classifyBad(rule *Rule, rtMs int64, err error) bool {
	if rule.Grade == GradeAvgRT {
		return rtMs > int64(rule.Count)
	}
	return err != nil
}

// OnComplete records one call's outcome. isProbe must be the value
// returned by the TryPass call that admitted this call.
func (b *Breaker) OnComplete(nowMs int64, isProbe bool, rtMs int64, err error) {
	bad := classifyBad(b.rule, rtMs, err)

	if isProbe {
		b.halfOpenProbe.Store(false)
		if bad {
			b.openAtMs.Store(nowMs)
			b.state.Store(int32(StateOpen))
		} else {
			b.stat.Reset()
			b.state.Store(int32(StateClosed))
		}
		return
	}

	if State(b.state.Load()) != StateClosed {
		return // already OPEN; admission is gated in TryPass, this is belt-and-braces.
	}

	bucket := b.stat.CurrentBucket(nowMs)
	bucket.AddPass(1)
	if bad {
		bucket.AddException(1)
	}

	total, badCount := b.windowCounts(nowMs)
	if total < b.rule.MinRequestAmount {
		return
	}
	if triggered(b.rule, badCount, total) {
		if b.state.CAS(int32(StateClosed), int32(StateOpen)) {
			b.openAtMs.Store(nowMs)
		}
	}
}

func (b *Breaker) windowCounts(nowMs int64) (total, bad int64) {
	for _, bucket := range b.stat.ValidBuckets(nowMs) {
		total += bucket.Pass()
		bad += bucket.Exception()
	}
	return
}

// triggered applies the grade-specific threshold (spec §4.5,
// "Grade-specific trigger").
func triggered(rule *Rule, badCount, total int64) bool {
	switch rule.Grade {
	case GradeAvgRT:
		return float64(badCount)/float64(total) >= rule.SlowRatioThreshold
	case GradeExceptionRatio:
		return float64(badCount)/float64(total) >= rule.Count
	case GradeExceptionCount:
		return float64(badCount) >= rule.Count
	default:
		return false
	}
}
