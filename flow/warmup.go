package flow

import (
	"context"
	"sync"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
)

// warmUpController is the warm-up shaper (spec §4.4, "Warm-up"): a token
// bucket whose filling rate climbs from threshold/coldFactor to
// threshold over warmUpPeriodSec. storedTokens starts full (cold — the
// slowest allowed rate) and is consumed by admitted traffic, refilling at
// `threshold` tokens/sec while idle.
type warmUpController struct {
	mu sync.Mutex

	threshold     float64
	coldFactor    float64
	warningToken  float64
	maxToken      float64
	slope         float64
	storedTokens  float64
	lastRefillMs  int64

	clk clock.Clock
}

func newWarmUpController(rule *Rule, clk clock.Clock) *warmUpController {
	coldFactor := float64(rule.WarmUpColdFactor)
	if coldFactor <= 1 {
		coldFactor = 3
	}
	warmUpPeriodSec := rule.WarmUpPeriodSec
	if warmUpPeriodSec <= 0 {
		warmUpPeriodSec = 10
	}

	warningToken := float64(warmUpPeriodSec) * rule.Count
	maxToken := coldFactor * warningToken
	slope := (coldFactor - 1) / (rule.Count * (maxToken - warningToken))

	return &warmUpController{
		threshold:    rule.Count,
		coldFactor:   coldFactor,
		warningToken: warningToken,
		maxToken:     maxToken,
		slope:        slope,
		storedTokens: maxToken, // cold start
		lastRefillMs: clk.NowMs(),
		clk:          clk,
	}
}

func (c *warmUpController) refillLocked(nowMs int64) {
	elapsed := nowMs - c.lastRefillMs
	if elapsed <= 0 {
		return
	}
	c.storedTokens += float64(elapsed) / 1000 * c.threshold
	if c.storedTokens > c.maxToken {
		c.storedTokens = c.maxToken
	}
	c.lastRefillMs = nowMs
}

// allowedQPS derives the slope-based effective rate from current tokens
// (spec §4.4 verbatim formula).
func (c *warmUpController) allowedQPS() float64 {
	if c.storedTokens > c.warningToken {
		above := c.storedTokens - c.warningToken
		return 1 / (above*c.slope + 1/c.threshold)
	}
	return c.threshold
}

func (c *warmUpController) CanPass(_ context.Context, node base.StatNode, acquireCount int64, _ bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refillLocked(c.clk.NowMs())
	allowed := c.allowedQPS()

	pass := float64(node.PreviousWindowPass())+float64(acquireCount) <= allowed
	if pass {
		c.storedTokens -= float64(acquireCount)
		if c.storedTokens < 0 {
			c.storedTokens = 0
		}
	}
	return pass
}
