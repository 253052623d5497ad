package flowguard

import (
	"context"

	"github.com/jspang582/flowguard/authority"
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/circuitbreaker"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/cluster"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/flow"
	"github.com/jspang582/flowguard/node"
	"github.com/jspang582/flowguard/scontext"
	"github.com/jspang582/flowguard/slotchain"
	"github.com/jspang582/flowguard/sysprobe"
	"github.com/jspang582/flowguard/system"
)

// Context is re-exported so callers rarely need to import scontext
// directly. The Entry type itself is not aliased here: the
// package-level Entry function (flowguard.go) occupies that name, so
// call sites spell the result type scontext.Entry when they need it
// spelled out at all.
type Context = scontext.Context

// Engine owns one independent set of rule tables, node registry, and
// slot chain (spec §4.2). Most programs use the package-level default
// Engine via Entry/EntryOK/AsyncEntry; build one directly for isolated
// rule tables (e.g. per-tenant).
type Engine struct {
	Config   *config.Config
	Clock    clock.Clock
	Contexts *scontext.Registry
	Nodes    *node.Registry

	Authority *authority.Manager
	Flow      *flow.Manager
	Degrade   *circuitbreaker.Manager
	System    *system.Manager

	Chain *slotchain.Chain
}

// EngineOption configures NewEngine, following the functional-options
// pattern used throughout this package for per-call configuration.
type EngineOption func(*engineConfig)

type engineConfig struct {
	cfg           *config.Config
	clk           clock.Clock
	probe         sysprobe.Probe
	clusterClient cluster.TokenClient
}

// WithConfig overrides the tunable defaults (spec §6).
func WithConfig(cfg *config.Config) EngineOption {
	return func(c *engineConfig) { c.cfg = cfg }
}

// WithClock overrides the monotonic time source, for deterministic tests.
func WithClock(clk clock.Clock) EngineOption {
	return func(c *engineConfig) { c.clk = clk }
}

// WithProbe supplies the system-load collaborator (spec §6, "System
// probe"). Defaults to a zero-valued sysprobe.Static, under which the
// load and CPU-usage thresholds never trigger.
func WithProbe(p sysprobe.Probe) EngineOption {
	return func(c *engineConfig) { c.probe = p }
}

// WithClusterClient wires a shared token client for ClusterMode flow
// rules (SPEC_FULL.md §4.4).
func WithClusterClient(tc cluster.TokenClient) EngineOption {
	return func(c *engineConfig) { c.clusterClient = tc }
}

// NewEngine builds an Engine with the canonical 8-slot chain registered
// in spec §4.2 order. Extra slots can be layered on with
// Engine.Chain.Register (spec §4.2, "Extension").
func NewEngine(opts ...EngineOption) *Engine {
	c := &engineConfig{cfg: config.New(), clk: clock.Real, probe: sysprobe.Static{}}
	for _, o := range opts {
		o(c)
	}

	e := &Engine{
		Config:    c.cfg,
		Clock:     c.clk,
		Contexts:  scontext.NewRegistry(c.cfg, c.clk),
		Nodes:     node.NewRegistry(c.cfg, c.clk),
		Authority: authority.NewManager(),
		Flow:      flow.NewManager(c.clk, c.clusterClient),
		Degrade:   circuitbreaker.NewManager(),
		System:    system.NewManager(c.cfg, c.clk, c.probe),
	}

	e.Chain = slotchain.NewChain()
	e.Chain.Register(slotchain.NodeSelectorSlot{})
	e.Chain.Register(slotchain.ClusterBuilderSlot{Registry: e.Nodes})
	e.Chain.Register(slotchain.LogSlot{})
	e.Chain.Register(slotchain.StatisticSlot{Clock: e.Clock})
	e.Chain.Register(slotchain.AuthoritySlot{Manager: e.Authority})
	e.Chain.Register(slotchain.SystemSlot{Manager: e.System, Clock: e.Clock})
	e.Chain.Register(slotchain.FlowSlot{Manager: e.Flow, Registry: e.Nodes})
	e.Chain.Register(slotchain.DegradeSlot{Manager: e.Degrade, Clock: e.Clock})

	return e
}

// entryConfig is built by EntryOption.
type entryConfig struct {
	contextName string
	origin      string
	traffic     base.TrafficType
	batchCount  int64
	prioritized bool
	goCtx       context.Context
	args        []interface{}
}

// EntryOption configures a single Entry/EntryOK/AsyncEntry call.
type EntryOption func(*entryConfig)

// WithContextName binds the entry to a named Context instead of the
// default one (spec §4.1).
func WithContextName(name string) EntryOption {
	return func(c *entryConfig) { c.contextName = name }
}

// WithOrigin sets the caller identity flow/authority rules key off. The
// origin is fixed when the named Context is first created; later entries
// under the same context name keep that first origin.
func WithOrigin(origin string) EntryOption {
	return func(c *entryConfig) { c.origin = origin }
}

// WithTraffic marks the entry Outbound; defaults to Inbound.
func WithTraffic(t base.TrafficType) EntryOption {
	return func(c *entryConfig) { c.traffic = t }
}

// WithBatchCount sets the cost this entry acquires; defaults to 1.
func WithBatchCount(n int64) EntryOption {
	return func(c *entryConfig) { c.batchCount = n }
}

// WithPrioritized marks the entry eligible to borrow the throttling
// shaper's bounded extra queueing allowance (spec §4.4).
func WithPrioritized() EntryOption {
	return func(c *entryConfig) { c.prioritized = true }
}

// WithGoContext threads a cancellation context through to the throttling
// shaper's suspension point (SPEC_FULL.md §5).
func WithGoContext(ctx context.Context) EntryOption {
	return func(c *entryConfig) { c.goCtx = ctx }
}

// WithArgs passes call-site arguments through to exit handlers and
// extension slots, mirroring spec §6's "args?..." parameter.
func WithArgs(args ...interface{}) EntryOption {
	return func(c *entryConfig) { c.args = args }
}

func buildEntryConfig(opts []EntryOption) *entryConfig {
	c := &entryConfig{
		contextName: base.DefaultContextName,
		traffic:     base.Inbound,
		batchCount:  1,
		goCtx:       context.Background(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Entry is SphU.entry's Go rendition (spec §6): it resolves (creating if
// absent) the named Context, runs the resource through the slot chain,
// and returns the admitted *scontext.Entry or a base.BlockError.
func (e *Engine) Entry(resource string, opts ...EntryOption) (*scontext.Entry, error) {
	c := buildEntryConfig(opts)

	ctx, err := e.Contexts.Enter(c.contextName, c.origin)
	if err != nil {
		return nil, err
	}

	res := base.NewResource(resource, c.traffic)
	entry := scontext.NewEntry(ctx, res, c.traffic, c.batchCount, e.Clock.NowMs())

	if blockErr := e.Chain.RunEntry(c.goCtx, ctx, entry, c.batchCount, c.prioritized, c.args...); blockErr != nil {
		return entry, blockErr
	}
	return entry, nil
}

// EntryOK is SphO.entry's Go rendition (spec §6): an exception-free
// variant returning false on block instead of an error.
func (e *Engine) EntryOK(resource string, opts ...EntryOption) (*scontext.Entry, bool) {
	entry, err := e.Entry(resource, opts...)
	return entry, err == nil
}

// AsyncEntry runs the entry against an explicitly supplied Context
// instead of the goroutine's ambient one (spec §6, "attached to a
// carried Context rather than task-local").
func (e *Engine) AsyncEntry(ctx *Context, resource string, opts ...EntryOption) (*scontext.Entry, error) {
	c := buildEntryConfig(opts)

	res := base.NewResource(resource, c.traffic)
	entry := scontext.NewEntry(ctx, res, c.traffic, c.batchCount, e.Clock.NowMs())

	if blockErr := e.Chain.RunEntry(c.goCtx, ctx, entry, c.batchCount, c.prioritized, c.args...); blockErr != nil {
		return entry, blockErr
	}
	return entry, nil
}
