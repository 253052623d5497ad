package flowguard

import "github.com/jspang582/flowguard/scontext"

// Trace attributes err to entry so the exception-ratio / exception-count
// circuit breakers (spec §4.5) and statistics slot count it against the
// resource when entry.Exit is eventually called. Call it from a deferred
// recover or an explicit error check, before Exit:
//
//	e, err := flowguard.Entry("check-out")
//	if err != nil {
//		return err
//	}
//	defer e.Exit()
//	if err := doWork(); err != nil {
//		flowguard.Trace(e, err)
//		return err
//	}
//
// A nil err clears a previously traced exception, matching
// Entry.Trace's own nil-is-clear semantics.
func Trace(entry *scontext.Entry, err error) {
	if entry == nil {
		return
	}
	entry.Trace(err)
}
