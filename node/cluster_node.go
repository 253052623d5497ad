package node

import (
	"sync"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
)

// ClusterNode aggregates statistics for one resource across every
// Context in the process, and owns the origin→OriginNode map for that
// resource (spec §3, "Node graph": "ClusterNode ... also keeps a mapping
// origin→OriginNode").
type ClusterNode struct {
	*statistic
	Resource string

	mu      sync.RWMutex
	origins map[string]*OriginNode

	cfg *config.Config
	clk clock.Clock
}

var _ base.StatNode = (*ClusterNode)(nil)

func newClusterNode(resource string, cfg *config.Config, clk clock.Clock) *ClusterNode {
	return &ClusterNode{
		statistic: newStatistic(cfg, clk),
		Resource:  resource,
		origins:   make(map[string]*OriginNode),
		cfg:       cfg,
		clk:       clk,
	}
}

// OriginNode returns (creating if absent) the OriginNode for origin.
func (c *ClusterNode) OriginNode(origin string) *OriginNode {
	c.mu.RLock()
	n, ok := c.origins[origin]
	c.mu.RUnlock()
	if ok {
		return n
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.origins[origin]; ok {
		return n
	}
	n = newOriginNode(c.Resource, origin, c.cfg, c.clk)
	c.origins[origin] = n
	return n
}

// OriginNodesExcept returns every OriginNode whose origin is not in
// except — used by FlowRule DIRECT strategy's limitApp="other" selector
// (spec §4.4).
func (c *ClusterNode) OriginNodesExcept(except map[string]struct{}) []*OriginNode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*OriginNode, 0, len(c.origins))
	for origin, n := range c.origins {
		if _, skip := except[origin]; !skip {
			out = append(out, n)
		}
	}
	return out
}
