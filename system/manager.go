package system

import (
	"sync/atomic"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/sysprobe"
)

// Manager is the SystemRuleManager (spec §4.6): a copy-on-write table of
// system rules plus the InboundStats rollup and injected Probe they are
// checked against. Consulted by SystemSlot only for base.Inbound
// entries.
type Manager struct {
	rules atomic.Value // []*Rule
	Stats *InboundStats
	probe sysprobe.Probe
}

// NewManager builds a manager with no rules loaded (the gate is a no-op
// until LoadRules is called).
func NewManager(cfg *config.Config, clk clock.Clock, probe sysprobe.Probe) *Manager {
	m := &Manager{Stats: NewInboundStats(cfg, clk), probe: probe}
	m.rules.Store([]*Rule{})
	return m
}

func (m *Manager) LoadRules(rules []*Rule) {
	valid := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		if err := r.IsValid(); err != nil {
			flowguardlog.RuleDropped("system", err.Error(), r)
			continue
		}
		valid = append(valid, r)
	}
	m.rules.Store(valid)
	flowguardlog.RuleUpdate("system", len(valid))
}

func (m *Manager) GetRules() []*Rule {
	return m.rules.Load().([]*Rule)
}

// Check evaluates every loaded rule's enabled thresholds against the
// current aggregate (spec §4.6: "Enforces up to five thresholds
// simultaneously; any violation blocks"). Only called for base.Inbound
// traffic by SystemSlot.
func (m *Manager) Check() (bool, *Rule) {
	rules := m.GetRules()
	if len(rules) == 0 {
		return true, nil
	}

	threads := m.Stats.ConcurrentThreads()
	qps := m.Stats.QPS()
	avgRt := m.Stats.AvgRT()
	load := m.probe.SystemLoad()
	cpu := m.probe.CPUUsage()

	for _, r := range rules {
		if r.EnableMaxThread && threads > r.MaxThread {
			return false, r
		}
		if r.EnableQPS && qps > r.QPS {
			return false, r
		}
		if r.EnableAvgRT && avgRt > r.AvgRTMs {
			return false, r
		}
		if r.EnableLoad && load > r.Load {
			estimatedCapacity := m.Stats.PeakQPS() * (m.Stats.MinRT() / 1000)
			if float64(threads) > estimatedCapacity {
				return false, r
			}
		}
		if r.EnableCPUUsage && cpu > r.CPUUsage {
			return false, r
		}
	}
	return true, nil
}

var _ base.Rule = (*Rule)(nil)
