package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/scontext"
	"github.com/jspang582/flowguard/system"
)

// SystemSlot consults the global system-load admission gate, only for
// inbound traffic (spec §4.2 step 6; §4.6).
type SystemSlot struct {
	Manager *system.Manager
	Clock   clock.Clock
}

func (SystemSlot) Priority() int { return 600 }

func (s SystemSlot) OnEntry(_ context.Context, _ *scontext.Context, entry *scontext.Entry, count int64, _ bool, _ ...interface{}) base.BlockError {
	if entry.Traffic != base.Inbound {
		return nil
	}

	stats := s.Manager.Stats
	stats.OnEnter()
	stats.OnPass()

	entry.AddExitHandler(func(_ *scontext.Context, e *scontext.Entry, _ int64, _ ...interface{}) {
		stats.OnExit()
		if e.BlockError != nil {
			stats.OnBlock()
			return
		}
		rt := s.Clock.NowMs() - e.CreatedMs
		stats.OnComplete(rt, e.TracedError() == nil)
	})

	if ok, rule := s.Manager.Check(); !ok {
		return base.NewSystemBlockError(entry.Resource.Name, rule.String())
	}
	return nil
}
