package flow

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/cluster"
)

// TrafficShapingController is a control-behavior policy (spec §4.4,
// "shapers — each implements canPass"). acquireCount is the batch cost
// being requested; prioritized requests may borrow from the throttling
// shaper's future tokens.
type TrafficShapingController interface {
	CanPass(ctx context.Context, node base.StatNode, acquireCount int64, prioritized bool) bool
}

// measurement reads the grade-selected statistic off a node (spec §4.4,
// "Grade selects the measurement").
func measurement(grade Grade, node base.StatNode) float64 {
	if grade == GradeThread {
		return float64(node.CurrentThreadCount())
	}
	return node.PassQPS()
}

// newShaper builds the controller named by rule.ControlBehavior.
// clusterClient may be nil; only the reject and throttling shapers
// consult it, and only when rule.ClusterMode is set.
func newShaper(rule *Rule, clk clock.Clock, clusterClient cluster.TokenClient) TrafficShapingController {
	switch rule.ControlBehavior {
	case BehaviorWarmUp:
		return newWarmUpController(rule, clk)
	case BehaviorThrottling:
		return newThrottlingController(rule, clk, clusterClient)
	case BehaviorWarmUpThrottling:
		return newWarmUpThrottlingController(rule, clk)
	default:
		return newRejectController(rule, clusterClient)
	}
}
