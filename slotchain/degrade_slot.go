package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/circuitbreaker"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/scontext"
)

// DegradeSlot consults circuit breakers (spec §4.2, step 8).
type DegradeSlot struct {
	Manager *circuitbreaker.Manager
	Clock   clock.Clock
}

func (DegradeSlot) Priority() int { return 800 }

func (s DegradeSlot) OnEntry(_ context.Context, ctx *scontext.Context, entry *scontext.Entry, _ int64, _ bool, _ ...interface{}) base.BlockError {
	now := s.Clock.NowMs()
	pass, probe, rule := s.Manager.TryPass(entry.Resource.Name, now)
	if !pass {
		return base.NewDegradeError(entry.Resource.Name, ctx.Origin, rule)
	}

	entry.AddExitHandler(func(_ *scontext.Context, e *scontext.Entry, _ int64, _ ...interface{}) {
		rt := s.Clock.NowMs() - e.CreatedMs
		s.Manager.Complete(e.Resource.Name, probe, s.Clock.NowMs(), rt, e.TracedError())
	})
	return nil
}
