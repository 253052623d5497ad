package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/scontext"
)

// StatisticSlot increments the live thread-count gauge on entry so
// THREAD-grade flow rules (checked later, at priority 700) observe
// concurrency that includes the call currently going through the gates.
// Pass/block accounting is deliberately NOT done here: crediting a
// "pass" before the gates have actually admitted the call would let a
// request's own attempt count against its own threshold check, and
// every later-blocked call would still inflate the Pass metric that
// future QPS checks read. Chain.RunEntry instead records Pass exactly
// once a call clears every gate, and Block exactly once some gate
// rejects it (spec §4.2, step 4 — "admitted calls" and "blocked calls"
// are the literal event names the statistics track).
type StatisticSlot struct {
	Clock clock.Clock
}

func (StatisticSlot) Priority() int { return 400 }

func (s StatisticSlot) OnEntry(_ context.Context, _ *scontext.Context, entry *scontext.Entry, count int64, _ bool, _ ...interface{}) base.BlockError {
	entry.DefaultNode.IncreaseThreadCount()
	if entry.ClusterNode != nil {
		entry.ClusterNode.IncreaseThreadCount()
	}
	if entry.OriginNode != nil {
		entry.OriginNode.IncreaseThreadCount()
	}

	entry.AddExitHandler(func(_ *scontext.Context, e *scontext.Entry, count int64, _ ...interface{}) {
		e.DefaultNode.DecreaseThreadCount()
		if e.ClusterNode != nil {
			e.ClusterNode.DecreaseThreadCount()
		}
		if e.OriginNode != nil {
			e.OriginNode.DecreaseThreadCount()
		}

		if e.BlockError != nil {
			return
		}

		rt := s.Clock.NowMs() - e.CreatedMs
		e.DefaultNode.AddRT(rt)
		if e.ClusterNode != nil {
			e.ClusterNode.AddRT(rt)
		}
		if e.OriginNode != nil {
			e.OriginNode.AddRT(rt)
		}

		if e.TracedError() != nil {
			e.DefaultNode.AddException(count)
			if e.ClusterNode != nil {
				e.ClusterNode.AddException(count)
			}
			if e.OriginNode != nil {
				e.OriginNode.AddException(count)
			}
			return
		}

		e.DefaultNode.AddSuccess(count)
		if e.ClusterNode != nil {
			e.ClusterNode.AddSuccess(count)
		}
		if e.OriginNode != nil {
			e.OriginNode.AddSuccess(count)
		}
	})

	return nil
}
