package flow

import (
	"context"
	"sync/atomic"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/cluster"
	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/node"
	"github.com/jspang582/flowguard/scontext"
)

// Manager is the FlowRuleManager (spec §4.4): a copy-on-write table of
// Rules grouped by resource. Every load rebuilds each rule's shaper
// instance from scratch, so reloading never leaks state from a prior
// generation's token buckets or leaky-bucket timers (spec §8,
// round-trip/idempotence property).
type Manager struct {
	byResource    atomic.Value // map[string][]*Rule
	clk           clock.Clock
	clusterClient cluster.TokenClient
}

// NewManager builds an empty flow rule manager. clusterClient is
// consulted by reject/throttling shapers on rules with ClusterMode set;
// pass nil if cluster mode is never used.
func NewManager(clk clock.Clock, clusterClient cluster.TokenClient) *Manager {
	m := &Manager{clk: clk, clusterClient: clusterClient}
	m.byResource.Store(make(map[string][]*Rule))
	return m
}

// LoadRules validates and installs a full rule set, dropping invalid
// rules with a warning (spec §4.4, "Rules with invalid ... are dropped
// with a warning") rather than failing the whole load.
func (m *Manager) LoadRules(rules []*Rule) {
	byResource := make(map[string][]*Rule)
	loaded := 0
	for _, r := range rules {
		if err := r.IsValid(); err != nil {
			flowguardlog.RuleDropped("flow", err.Error(), r)
			continue
		}
		r.shaper = newShaper(r, m.clk, m.clusterClient)
		byResource[r.Resource] = append(byResource[r.Resource], r)
		loaded++
	}
	m.byResource.Store(byResource)
	flowguardlog.RuleUpdate("flow", loaded)
}

// RulesFor returns the rules currently loaded for a resource.
func (m *Manager) RulesFor(resource string) []*Rule {
	return m.byResource.Load().(map[string][]*Rule)[resource]
}

// namedOtherLimitApps collects every origin named specifically (not
// "default"/"other") by a rule on this resource, so a sibling
// LimitAppOther rule can exclude them (spec §4.4, DIRECT strategy).
func namedOtherLimitApps(rules []*Rule) map[string]struct{} {
	named := make(map[string]struct{})
	for _, r := range rules {
		if r.LimitApp != "" && r.LimitApp != base.LimitAppDefault && r.LimitApp != base.LimitAppOther {
			named[r.LimitApp] = struct{}{}
		}
	}
	return named
}

// CheckPass runs every flow rule loaded for entry's resource and reports
// whether the call is admitted. On the first rule that blocks, it
// returns that rule so the caller can build a FlowError (spec §4.2,
// FlowSlot).
func (m *Manager) CheckPass(ctx context.Context, entry *scontext.Entry, registry *node.Registry, acquireCount int64, prioritized bool) (bool, *Rule) {
	rules := m.RulesFor(entry.Resource.Name)
	if len(rules) == 0 {
		return true, nil
	}
	named := namedOtherLimitApps(rules)

	for _, r := range rules {
		statNode, ok := selectNode(r, entry, registry, named)
		if !ok {
			continue
		}
		if !r.shaper.CanPass(ctx, statNode, acquireCount, prioritized) {
			return false, r
		}
	}
	return true, nil
}
