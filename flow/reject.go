package flow

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/cluster"
)

// clusterWindowMs is the fixed-window length cluster-mode shapers count
// shared QPS quota over.
const clusterWindowMs = 1000

// rejectController is the direct-reject shaper (spec §4.4, "Reject
// (direct)"): pass iff currentMeasurement + acquireCount <= threshold.
// When the rule is ClusterMode, the QPS comparison is made against a
// shared cluster.TokenClient instead of the local node's leap array
// (SPEC_FULL.md §4.4, "Domain-stack addition — cluster mode").
type rejectController struct {
	rule          *Rule
	clusterClient cluster.TokenClient
}

func newRejectController(rule *Rule, clusterClient cluster.TokenClient) *rejectController {
	return &rejectController{rule: rule, clusterClient: clusterClient}
}

func (c *rejectController) CanPass(ctx context.Context, node base.StatNode, acquireCount int64, _ bool) bool {
	if c.rule.ClusterMode && c.clusterClient != nil {
		pass, err := c.clusterClient.TryAcquire(ctx, c.rule.Resource, acquireCount, c.rule.Count, clusterWindowMs)
		if err != nil {
			return true // shared counter unavailable: fail open, matching spec §7's internal-error posture
		}
		return pass
	}
	cur := measurement(c.rule.Grade, node)
	return cur+float64(acquireCount) <= c.rule.Count
}
