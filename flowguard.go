package flowguard

import (
	"sync"

	"github.com/jspang582/flowguard/scontext"
)

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

// Default returns the lazily-built process-wide Engine that the
// package-level Entry/EntryOK/AsyncEntry operate against. Reach its
// rule managers directly for bulk setup, e.g.
// flowguard.Default().Flow.LoadRules(rules).
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// Entry runs resource through the default Engine's slot chain (spec §6,
// SphU.entry). See Engine.Entry.
func Entry(resource string, opts ...EntryOption) (*scontext.Entry, error) {
	return Default().Entry(resource, opts...)
}

// EntryOK is the exception-free variant (spec §6, SphO.entry). See
// Engine.EntryOK.
func EntryOK(resource string, opts ...EntryOption) (*scontext.Entry, bool) {
	return Default().EntryOK(resource, opts...)
}

// AsyncEntry runs the entry against an explicitly supplied Context
// rather than one resolved by name, for callers that carry a Context
// across a goroutine hop (spec §6). See Engine.AsyncEntry.
func AsyncEntry(ctx *Context, resource string, opts ...EntryOption) (*scontext.Entry, error) {
	return Default().AsyncEntry(ctx, resource, opts...)
}
