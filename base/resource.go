// Package base holds the types every other package depends on: the
// resource identifier, the traffic-type tag, the statistics capability
// every node implements, and the block-error taxonomy. Keeping these in
// one leaf package (instead of, say, defining StatNode inside node and
// importing node from flow/circuitbreaker/system) avoids the import
// cycles that would otherwise appear once rules need to read node
// statistics and nodes need to be constructed by rule-aware slots.
package base

import "fmt"

// TrafficType marks a resource as inbound or outbound (spec §3, "Resource
// identifier"). Only IN traffic is subject to system-load rules.
type TrafficType uint8

const (
	// Inbound is traffic originating from outside the process.
	Inbound TrafficType = iota
	// Outbound is traffic this process initiates against something else.
	Outbound
)

func (t TrafficType) String() string {
	switch t {
	case Inbound:
		return "Inbound"
	case Outbound:
		return "Outbound"
	default:
		return fmt.Sprintf("TrafficType(%d)", uint8(t))
	}
}

// ResourceType classifies what kind of thing a resource names. The core
// does not interpret it; it exists so annotation-driven adapters (out of
// scope here) have somewhere to stash a value.
type ResourceType int32

const (
	ResTypeCommon ResourceType = 0
)

// Resource is the immutable identity of a guarded unit of work: a
// non-empty name plus its traffic type (spec §3).
type Resource struct {
	Name        string
	Classification TrafficType
	Type        ResourceType
}

// NewResource builds a Resource with the common classification.
func NewResource(name string, t TrafficType) Resource {
	return Resource{Name: name, Classification: t, Type: ResTypeCommon}
}

func (r Resource) String() string {
	return fmt.Sprintf("Resource{name=%s, type=%s}", r.Name, r.Classification)
}

// Empty reports whether the resource carries no name — the entry lifecycle
// never allocates a resource in this state; it exists to give node
// placeholders a recognisable zero value.
func (r Resource) Empty() bool {
	return r.Name == ""
}

// DefaultContextName is the name bound to the lazily created Context when
// business code enters a resource with no context of its own (spec §4.1).
const DefaultContextName = "sentinel_default_context"

// LimitAppDefault, LimitAppOther are the two reserved limitApp selector
// values (spec §4.4, "Limit-app"); any other string names a specific
// origin.
const (
	LimitAppDefault = "default"
	LimitAppOther   = "other"
)
