package circuitbreaker

import (
	"sync/atomic"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/flowguardlog"
)

// ruleBreaker pairs a loaded rule with its live state machine.
type ruleBreaker struct {
	rule    *Rule
	breaker *Breaker
}

// Manager is the DegradeRuleManager (spec §4.5/§6): a copy-on-write table
// of rules grouped by resource, each backed by one Breaker. Reloading
// rebuilds breakers from scratch so no stale OPEN/HALF_OPEN state
// survives a rule-table swap.
type Manager struct {
	byResource atomic.Value // map[string][]*ruleBreaker
}

// NewManager builds an empty degrade rule manager.
func NewManager() *Manager {
	m := &Manager{}
	m.byResource.Store(make(map[string][]*ruleBreaker))
	return m
}

// LoadRules validates and installs a full degrade rule set.
func (m *Manager) LoadRules(rules []*Rule) {
	byResource := make(map[string][]*ruleBreaker)
	loaded := 0
	for _, r := range rules {
		if err := r.IsValid(); err != nil {
			flowguardlog.RuleDropped("circuitbreaker", err.Error(), r)
			continue
		}
		byResource[r.Resource] = append(byResource[r.Resource], &ruleBreaker{rule: r, breaker: NewBreaker(r)})
		loaded++
	}
	m.byResource.Store(byResource)
	flowguardlog.RuleUpdate("circuitbreaker", loaded)
}

// GetRules returns every currently loaded degrade rule.
func (m *Manager) GetRules() []*Rule {
	snap := m.byResource.Load().(map[string][]*ruleBreaker)
	out := make([]*Rule, 0, len(snap))
	for _, rbs := range snap {
		for _, rb := range rbs {
			out = append(out, rb.rule)
		}
	}
	return out
}

func (m *Manager) breakersFor(resource string) []*ruleBreaker {
	return m.byResource.Load().(map[string][]*ruleBreaker)[resource]
}

// Probe is the outstanding admission decision for one breaker on one
// resource, returned by TryPass so the matching OnComplete can be routed
// back to exactly that breaker instance (spec §4.5: the probe and its
// outcome must pair with the same breaker generation, not a generation
// swapped in by a concurrent reload).
type Probe struct {
	breaker *Breaker
	isProbe bool
}

// TryPass evaluates every breaker loaded for resource and blocks on the
// first one that refuses admission (spec §4.2, DegradeSlot).
func (m *Manager) TryPass(resource string, nowMs int64) (bool, *Probe, *Rule) {
	for _, rb := range m.breakersFor(resource) {
		pass, isProbe := rb.breaker.TryPass(nowMs)
		if !pass {
			return false, nil, rb.rule
		}
		if isProbe {
			return true, &Probe{breaker: rb.breaker, isProbe: true}, nil
		}
	}
	return true, nil, nil
}

// Complete routes a call's outcome to every breaker on the resource so
// CLOSED-state windows stay current, and additionally resolves the probe
// breaker's HALF_OPEN transition if p is non-nil.
func (m *Manager) Complete(resource string, p *Probe, nowMs int64, rtMs int64, err error) {
	for _, rb := range m.breakersFor(resource) {
		if p != nil && rb.breaker == p.breaker {
			rb.breaker.OnComplete(nowMs, true, rtMs, err)
			continue
		}
		rb.breaker.OnComplete(nowMs, false, rtMs, err)
	}
}

var _ base.Rule = (*Rule)(nil)
