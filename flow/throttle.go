package flow

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/cluster"
)

// throttlingController is the leaky-bucket shaper (spec §4.4,
// "Throttling (leaky bucket)"). It is the only shaper that suspends the
// caller (spec §5, "Suspension points"); the sleep is bounded by
// maxQueueingTimeMs and — unlike the reference model — cancellable via
// the caller's context.Context, a deliberate Go-idiomatic strengthening
// (see SPEC_FULL.md §5).
type throttlingController struct {
	threshold         atomic.Float64
	maxQueueingTimeMs int64
	latestPassedMs    atomic.Int64
	clk               clock.Clock

	rule          *Rule
	clusterClient cluster.TokenClient
}

func newThrottlingController(rule *Rule, clk clock.Clock, clusterClient cluster.TokenClient) *throttlingController {
	c := newThrottlingControllerWithRate(rule.Count, rule.MaxQueueingTimeMs, clk)
	c.rule = rule
	c.clusterClient = clusterClient
	return c
}

func newThrottlingControllerWithRate(threshold float64, maxQueueingTimeMs int, clk clock.Clock) *throttlingController {
	c := &throttlingController{maxQueueingTimeMs: int64(maxQueueingTimeMs), clk: clk}
	c.threshold.Store(threshold)
	return c
}

// priorityBorrowFactor bounds how far a prioritized request may push
// expectedPassTime past maxQueueingTimeMs (spec §4.4: "Priority requests
// may borrow future tokens up to a bounded extent").
const priorityBorrowFactor = 2

func (c *throttlingController) CanPass(ctx context.Context, _ base.StatNode, acquireCount int64, prioritized bool) bool {
	if c.rule != nil && c.rule.ClusterMode && c.clusterClient != nil {
		pass, err := c.clusterClient.TryAcquire(ctx, c.rule.Resource, acquireCount, c.rule.Count, clusterWindowMs)
		if err != nil {
			return true
		}
		if !pass {
			return false // shared quota exhausted; local queueing would only delay an already-doomed request
		}
	}

	threshold := c.threshold.Load()
	if threshold <= 0 {
		return false
	}
	costMs := int64(float64(acquireCount) * 1000 / threshold)

	limit := c.maxQueueingTimeMs
	if prioritized {
		limit *= priorityBorrowFactor
	}

	for {
		now := c.clk.NowMs()
		latest := c.latestPassedMs.Load()
		expected := latest + costMs
		if expected <= now {
			if c.latestPassedMs.CAS(latest, now) {
				return true
			}
			continue
		}

		waitMs := expected - now
		if waitMs > limit {
			return false
		}
		if !c.latestPassedMs.CAS(latest, expected) {
			continue
		}
		if !sleep(ctx, time.Duration(waitMs)*time.Millisecond) {
			return false
		}
		return true
	}
}

// sleep blocks for d or until ctx is cancelled, returning false on
// cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
