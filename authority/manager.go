package authority

import (
	"sync/atomic"

	"github.com/jspang582/flowguard/flowguardlog"
)

// Manager holds the live authority rule table, grouped by resource and
// published via copy-on-write (spec §4.4 "Rule registration", generalised
// to authority rules since spec §6 requires a LoadRules/GetRules pair for
// every rule kind).
type Manager struct {
	rules atomic.Value // map[string][]*Rule
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	m := &Manager{}
	m.rules.Store(map[string][]*Rule{})
	return m
}

// LoadRules atomically replaces the active rule set. Invalid rules are
// dropped with a WARN log, never propagated as an error (spec §7,
// "Configuration errors").
func (m *Manager) LoadRules(rules []*Rule) {
	grouped := make(map[string][]*Rule)
	for _, r := range rules {
		if err := r.IsValid(); err != nil {
			flowguardlog.RuleDropped("authority", err.Error(), r)
			continue
		}
		grouped[r.Resource] = append(grouped[r.Resource], r)
	}
	m.rules.Store(grouped)
	flowguardlog.RuleUpdate("authority", len(rules))
}

// GetRules returns every currently active rule, flattened.
func (m *Manager) GetRules() []*Rule {
	snap := m.rules.Load().(map[string][]*Rule)
	out := make([]*Rule, 0, len(snap))
	for _, rs := range snap {
		out = append(out, rs...)
	}
	return out
}

// RulesFor returns the active rules for one resource.
func (m *Manager) RulesFor(resource string) []*Rule {
	return m.rules.Load().(map[string][]*Rule)[resource]
}

// CheckOrigin reports whether origin may call resource, and the first
// rule that denied it (nil if allowed or unguarded).
func (m *Manager) CheckOrigin(resource, origin string) (bool, *Rule) {
	for _, r := range m.RulesFor(resource) {
		if !r.Allows(origin) {
			return false, r
		}
	}
	return true, nil
}
