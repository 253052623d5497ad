package node

import (
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
)

// OriginNode (a.k.a. StatisticNode in spec §3) tracks one (resource,
// origin) pair. ClusterNode owns and looks these up by origin string.
type OriginNode struct {
	*statistic
	Resource string
	Origin   string
}

var _ base.StatNode = (*OriginNode)(nil)

func newOriginNode(resource, origin string, cfg *config.Config, clk clock.Clock) *OriginNode {
	return &OriginNode{statistic: newStatistic(cfg, clk), Resource: resource, Origin: origin}
}
