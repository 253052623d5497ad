package flow

import (
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/node"
	"github.com/jspang582/flowguard/scontext"
)

// selectNode resolves the StatNode a rule's shaper measures against,
// per its Strategy (spec §4.4, "Strategy"):
//
//   - DIRECT:  the resource's own DefaultNode/ClusterNode, filtered by
//     LimitApp ("default" → whole resource, "other" → every origin not
//     named by another rule on the same resource, else that origin's
//     OriginNode).
//   - RELATED: the named RefResource's ClusterNode, regardless of the
//     resource the entry was actually opened against.
//   - CHAIN:   the calling context's name must equal RefResource; the
//     rule only applies to callers that entered through that exact
//     context (an Open Question in spec §4.4, resolved here as
//     "nearest/current context name only, not any ancestor" — see
//     SPEC_FULL.md §9).
func selectNode(rule *Rule, entry *scontext.Entry, registry *node.Registry, namedOtherLimitApps map[string]struct{}) (base.StatNode, bool) {
	switch rule.Strategy {
	case StrategyRelated:
		if rule.RefResource == "" {
			return nil, false
		}
		return registry.ClusterNodeFor(rule.RefResource), true

	case StrategyChain:
		if entry.Context().Name != rule.RefResource {
			return nil, false
		}
		return entry.DefaultNode, true

	default: // StrategyDirect
		return selectDirect(rule, entry, namedOtherLimitApps)
	}
}

func selectDirect(rule *Rule, entry *scontext.Entry, namedOtherLimitApps map[string]struct{}) (base.StatNode, bool) {
	switch rule.LimitApp {
	case "", base.LimitAppDefault:
		return entry.ClusterNode, true

	case base.LimitAppOther:
		origin := entry.Context().Origin
		if _, named := namedOtherLimitApps[origin]; named {
			// Another rule on this resource names this origin
			// specifically; "other" excludes it (spec §4.4).
			return nil, false
		}
		return entry.ClusterNode.OriginNode(origin), true

	default:
		if entry.Context().Origin != rule.LimitApp {
			return nil, false
		}
		return entry.ClusterNode.OriginNode(rule.LimitApp), true
	}
}
