// Package flowguard is a resource-guard/flow-control engine: business
// code brackets protected work with Entry/Exit, and a fixed slot chain
// (package slotchain) checks authority, system-load, flow-control, and
// circuit-breaker rules before admitting the call.
//
// # Key Concepts
//
//   - [Entry] and the returned [scontext.Entry]'s Exit method bracket a
//     protected call, paired by identity rather than by resource name.
//   - Rule managers ([flow.Manager], [circuitbreaker.Manager],
//     [system.Manager], [authority.Manager]) each hold a copy-on-write
//     table loaded with LoadRules; an external [property.Source] can
//     drive updates.
//   - [Engine] owns one rule-manager set plus the node registry and slot
//     chain; the package-level Entry/EntryOK/AsyncEntry functions use a
//     lazily-built default Engine.
//
// # Quick Start
//
//	e, err := flowguard.Entry("check-out", flowguard.WithBatchCount(1))
//	if err != nil {
//		// blocked: err is a base.BlockError (*base.FlowError, *base.DegradeError, ...)
//		return err
//	}
//	defer e.Exit()
//
// See [Engine] for building an independently-configured instance.
package flowguard
