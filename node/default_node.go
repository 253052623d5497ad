package node

import (
	"sync"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
)

// DefaultNode tracks statistics for one (resource, Context) pair; its
// children track sub-resources reached from this context, forming the
// invocation tree rooted at the Context (spec §3, "Node graph").
type DefaultNode struct {
	*statistic
	Resource string
	Cluster  *ClusterNode

	mu       sync.Mutex
	children map[string]*DefaultNode

	cfg *config.Config
	clk clock.Clock
}

var _ base.StatNode = (*DefaultNode)(nil)

// NewDefaultNode builds a root or child DefaultNode. Cluster is attached
// separately by ClusterBuilderSlot on first encounter (spec §4.2).
func NewDefaultNode(resource string, cfg *config.Config, clk clock.Clock) *DefaultNode {
	return &DefaultNode{
		statistic: newStatistic(cfg, clk),
		Resource:  resource,
		children:  make(map[string]*DefaultNode),
		cfg:       cfg,
		clk:       clk,
	}
}

// ChildOrCreate resolves (creating if absent) the child DefaultNode for a
// sub-resource reached from this one.
func (d *DefaultNode) ChildOrCreate(resource string) *DefaultNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.children[resource]; ok {
		return c
	}
	c := NewDefaultNode(resource, d.cfg, d.clk)
	d.children[resource] = c
	return c
}

// SetCluster attaches the process-wide ClusterNode the first time this
// resource is seen in any context.
func (d *DefaultNode) SetCluster(c *ClusterNode) { d.Cluster = c }
