// Package circuitbreaker implements degrade rules and the per-rule
// CLOSED→OPEN→HALF_OPEN state machine (spec §4.5).
package circuitbreaker

import "fmt"

// Grade selects the trigger condition a breaker evaluates.
type Grade int

const (
	GradeAvgRT Grade = iota
	GradeExceptionRatio
	GradeExceptionCount
)

func (g Grade) String() string {
	switch g {
	case GradeAvgRT:
		return "AVG_RT"
	case GradeExceptionRatio:
		return "EXCEPTION_RATIO"
	case GradeExceptionCount:
		return "EXCEPTION_COUNT"
	default:
		return "UNKNOWN"
	}
}

// Rule is a DegradeRule (spec §4.5): "grade ∈ {AVG_RT, EXCEPTION_RATIO,
// EXCEPTION_COUNT}, count, timeWindow (recovery seconds),
// minRequestAmount (default 5), slowRatioThreshold (default 1.0),
// statIntervalMs (default 1,000)".
type Rule struct {
	Resource string
	Grade    Grade
	Count    float64

	TimeWindowSec int

	MinRequestAmount   int64
	SlowRatioThreshold float64
	StatIntervalMs     int64
}

func (r *Rule) ResourceName() string { return r.Resource }

func (r *Rule) String() string {
	return fmt.Sprintf("DegradeRule{resource=%s, grade=%v, count=%v, timeWindow=%ds}",
		r.Resource, r.Grade, r.Count, r.TimeWindowSec)
}

// IsValid applies the defaults spec §4.5 names and rejects nonsensical
// rules.
func (r *Rule) IsValid() error {
	if r.Resource == "" {
		return fmt.Errorf("circuitbreaker: empty resource")
	}
	if r.TimeWindowSec <= 0 {
		return fmt.Errorf("circuitbreaker: non-positive timeWindow")
	}
	if r.MinRequestAmount <= 0 {
		r.MinRequestAmount = 5
	}
	if r.SlowRatioThreshold <= 0 {
		r.SlowRatioThreshold = 1.0
	}
	if r.StatIntervalMs <= 0 {
		r.StatIntervalMs = 1000
	}
	return nil
}
