package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/flow"
	"github.com/jspang582/flowguard/node"
	"github.com/jspang582/flowguard/scontext"
)

// FlowSlot consults flow-control rules (spec §4.2, step 7).
type FlowSlot struct {
	Manager  *flow.Manager
	Registry *node.Registry
}

func (FlowSlot) Priority() int { return 700 }

func (s FlowSlot) OnEntry(goCtx context.Context, _ *scontext.Context, entry *scontext.Entry, count int64, prioritized bool, _ ...interface{}) base.BlockError {
	pass, rule := s.Manager.CheckPass(goCtx, entry, s.Registry, count, prioritized)
	if pass {
		return nil
	}
	return base.NewFlowError(entry.Resource.Name, entry.Context().Origin, rule)
}
