package base

import "fmt"

// Rule is the common shape every rule kind carries (spec §3, "Rule").
// Flow, Degrade, System and Authority rules all satisfy it; a rule
// manager only needs this much to index and validate before delegating
// to its kind-specific logic.
type Rule interface {
	fmt.Stringer
	// ResourceName is the key rules are grouped and looked up by.
	ResourceName() string
	// IsValid reports whether the rule is well-formed enough to load
	// (spec §4.4 "Rule registration" — invalid rules are dropped with a
	// WARN log, never propagated as an error).
	IsValid() error
}
