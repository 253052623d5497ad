package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/scontext"
)

// NodeSelectorSlot resolves or creates the DefaultNode for this resource
// within the calling Context's node tree (spec §4.2, step 1).
type NodeSelectorSlot struct{}

func (NodeSelectorSlot) Priority() int { return 100 }

func (NodeSelectorSlot) OnEntry(_ context.Context, ctx *scontext.Context, entry *scontext.Entry, _ int64, _ bool, _ ...interface{}) base.BlockError {
	entry.DefaultNode = ctx.RootNode().ChildOrCreate(entry.Resource.Name)
	return nil
}
