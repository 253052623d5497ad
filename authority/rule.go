// Package authority implements origin whitelist/blacklist rules
// consulted by AuthoritySlot (spec §4.2). The distillation names the
// slot and the AuthorityException block variant (spec §6) but does not
// spell out the rule's field shape; this fills it in with the shape
// every rule kind shares.
package authority

import (
	"fmt"

	"github.com/jspang582/flowguard/base"
)

// Behavior selects whether LimitApps names an allow-list or a deny-list.
type Behavior int

const (
	White Behavior = iota
	Black
)

// Rule restricts which origins may call a resource.
type Rule struct {
	Resource string
	LimitApps []string
	Strategy  Behavior
}

func (r *Rule) ResourceName() string { return r.Resource }

func (r *Rule) String() string {
	return fmt.Sprintf("AuthorityRule{resource=%s, limitApps=%v, strategy=%v}", r.Resource, r.LimitApps, r.Strategy)
}

func (r *Rule) IsValid() error {
	if r.Resource == "" {
		return fmt.Errorf("authority: empty resource")
	}
	if len(r.LimitApps) == 0 {
		return fmt.Errorf("authority: empty limitApps")
	}
	return nil
}

// Allows reports whether origin may call the resource this rule guards.
func (r *Rule) Allows(origin string) bool {
	found := false
	for _, a := range r.LimitApps {
		if a == origin {
			found = true
			break
		}
	}
	if r.Strategy == White {
		return found
	}
	return !found
}

var _ base.Rule = (*Rule)(nil)
