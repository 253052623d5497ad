// Package cluster provides the client side of cluster-mode flow control
// (SPEC_FULL.md §4.4, "Domain-stack addition — cluster mode"): a shared
// counter consulted instead of a process-local ClusterNode leap array
// when a FlowRule's ClusterMode is set. The core does not run a token
// server; TokenClient is the collaborator contract an embedding process
// wires to a real shared backend.
package cluster

import (
	"context"

	"github.com/jspang582/flowguard/clusterstore"
)

// TokenClient checks and consumes shared quota for one resource over a
// fixed-length window, mirroring the single-threshold check a process-
// local shaper performs against its leap array.
type TokenClient interface {
	// TryAcquire attempts to claim n units of quota for resource within
	// the current window of length windowMs against threshold. It
	// reports whether the claim was granted.
	TryAcquire(ctx context.Context, resource string, n int64, threshold float64, windowMs int64) (bool, error)
}

// StoreTokenClient implements TokenClient as fixed-window counting on top
// of a clusterstore.Store: each windowMs-long interval gets its own
// bucket key, so counters roll over automatically as time advances.
type StoreTokenClient struct {
	Store clusterstore.Store
	Now   func() int64
}

// NewStoreTokenClient builds a TokenClient backed by store.
func NewStoreTokenClient(store clusterstore.Store, now func() int64) *StoreTokenClient {
	return &StoreTokenClient{Store: store, Now: now}
}

// TryAcquire increments the shared counter by n and grants the request
// iff the resulting count does not exceed threshold.
func (c *StoreTokenClient) TryAcquire(ctx context.Context, resource string, n int64, threshold float64, windowMs int64) (bool, error) {
	w := clusterstore.WindowFor(c.Now(), windowMs)
	count, err := c.Store.IncrementBy(ctx, resource, w, n)
	if err != nil {
		return false, err
	}
	return float64(count) <= threshold, nil
}
