package slotchain

import (
	"context"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/node"
	"github.com/jspang582/flowguard/scontext"
)

// ClusterBuilderSlot resolves the process-wide ClusterNode for the
// resource, attaches it to the DefaultNode on first encounter, and
// resolves the OriginNode for the Context's origin (spec §4.2, step 2).
type ClusterBuilderSlot struct {
	Registry *node.Registry
}

func (ClusterBuilderSlot) Priority() int { return 200 }

func (s ClusterBuilderSlot) OnEntry(_ context.Context, ctx *scontext.Context, entry *scontext.Entry, _ int64, _ bool, _ ...interface{}) base.BlockError {
	cluster := s.Registry.ClusterNodeFor(entry.Resource.Name)
	entry.DefaultNode.SetCluster(cluster)
	entry.ClusterNode = cluster
	entry.OriginNode = cluster.OriginNode(ctx.Origin)
	return nil
}
