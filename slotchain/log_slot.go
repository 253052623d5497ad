package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/scontext"
)

// LogSlot records block events (spec §4.2, step 3). It never itself
// blocks; it observes whichever slot does via BlockObserver, since the
// reason isn't known until a later slot in the chain fires (spec §4.2's
// listed position for LogSlot is a placement within the canonical order,
// not a claim that blocking is already resolved by that point).
type LogSlot struct{}

func (LogSlot) Priority() int { return 300 }

func (LogSlot) OnEntry(_ context.Context, _ *scontext.Context, _ *scontext.Entry, _ int64, _ bool, _ ...interface{}) base.BlockError {
	return nil
}

func (LogSlot) OnBlock(ctx *scontext.Context, entry *scontext.Entry, err base.BlockError) {
	flowguardlog.Block(entry.Resource.Name, blockKind(err), ctx.Origin, nil)
}

func blockKind(err base.BlockError) string {
	switch err.(type) {
	case *base.FlowError:
		return "flow"
	case *base.DegradeError:
		return "degrade"
	case *base.AuthorityError:
		return "authority"
	case *base.SystemBlockError:
		return "system"
	case *base.ParamFlowError:
		return "param-flow"
	default:
		return "unknown"
	}
}
