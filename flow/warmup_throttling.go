package flow

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
)

// warmUpThrottlingController composes the two shapers (spec §4.4,
// "Warm-up + throttling"): the warm-up controller's slope-derived
// allowedQPS becomes the throttling controller's leaky-bucket rate for
// that instant, so the spacing between admitted calls warms up alongside
// the admission rate; MaxQueueingTimeMs stays fixed.
type warmUpThrottlingController struct {
	warmUp     *warmUpController
	rule       *Rule
	throttling *throttlingController
}

func newWarmUpThrottlingController(rule *Rule, clk clock.Clock) *warmUpThrottlingController {
	return &warmUpThrottlingController{
		warmUp:     newWarmUpController(rule, clk),
		rule:       rule,
		throttling: newThrottlingControllerWithRate(rule.Count, rule.MaxQueueingTimeMs, clk),
	}
}

func (c *warmUpThrottlingController) CanPass(ctx context.Context, node base.StatNode, acquireCount int64, prioritized bool) bool {
	c.warmUp.mu.Lock()
	c.warmUp.refillLocked(c.warmUp.clk.NowMs())
	allowed := c.warmUp.allowedQPS()
	c.warmUp.mu.Unlock()

	c.throttling.threshold.Store(allowed)
	if !c.throttling.CanPass(ctx, node, acquireCount, prioritized) {
		return false
	}

	c.warmUp.mu.Lock()
	c.warmUp.storedTokens -= float64(acquireCount)
	if c.warmUp.storedTokens < 0 {
		c.warmUp.storedTokens = 0
	}
	c.warmUp.mu.Unlock()
	return true
}
