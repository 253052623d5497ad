package node

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/flowguardlog"
)

// Registry exclusively owns every ClusterNode in the process (spec §3,
// "Ownership"). The resource→ClusterNode map is republished wholesale on
// writes (readers-preferred copy-on-write, spec §5, "Shared resources"),
// so ClusterNodeFor is lock-free for already-tracked resources.
type Registry struct {
	m   atomic.Value // map[string]*ClusterNode
	mu  sync.Mutex   // serializes writers only
	cfg *config.Config
	clk clock.Clock

	untracked *ClusterNode // shared sink once MaxResourceCount is exceeded
}

// NewRegistry builds an empty Registry.
func NewRegistry(cfg *config.Config, clk clock.Clock) *Registry {
	r := &Registry{cfg: cfg, clk: clk}
	r.m.Store(make(map[string]*ClusterNode))
	r.untracked = newClusterNode("__untracked__", cfg, clk)
	return r
}

func (r *Registry) snapshot() map[string]*ClusterNode {
	return r.m.Load().(map[string]*ClusterNode)
}

// ClusterNodeFor resolves (creating if absent) the ClusterNode for a
// resource name. Beyond config.MaxResourceCount distinct names, a shared
// untracked sink is returned instead — the call is still admitted, just
// not statistically tracked (spec §3, "Resource identifier").
func (r *Registry) ClusterNodeFor(resource string) *ClusterNode {
	snap := r.snapshot()
	if n, ok := snap[resource]; ok {
		n.touch(r.clk.NowMs())
		return n
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap = r.snapshot()
	if n, ok := snap[resource]; ok {
		n.touch(r.clk.NowMs())
		return n
	}

	if len(snap) >= r.cfg.MaxResourceCount() {
		return r.untracked
	}

	next := make(map[string]*ClusterNode, len(snap)+1)
	for k, v := range snap {
		next[k] = v
	}
	n := newClusterNode(resource, r.cfg, r.clk)
	n.touch(r.clk.NowMs())
	next[resource] = n
	r.m.Store(next)
	return n
}

// Len returns the number of tracked resources.
func (r *Registry) Len() int { return len(r.snapshot()) }

// Range calls fn once per tracked resource, in no particular order. fn
// must not call back into the Registry's write path (ClusterNodeFor on a
// new resource); it may read freely off the node it's handed.
func (r *Registry) Range(fn func(resource string, n *ClusterNode)) {
	for resource, n := range r.snapshot() {
		fn(resource, n)
	}
}

// EvictIdle drops ClusterNodes whose last access predates the cutoff.
// Intended to run from a low-frequency background goroutine (spec §5,
// "another evicts idle nodes if the resource cap is exceeded").
func (r *Registry) EvictIdle(maxIdle time.Duration) {
	now := r.clk.NowMs()
	cutoff := maxIdle.Milliseconds()

	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.snapshot()
	if len(snap) < r.cfg.MaxResourceCount() {
		return // only evict once we're actually pressed for room
	}

	next := make(map[string]*ClusterNode, len(snap))
	evicted := 0
	for k, v := range snap {
		if v.idleSince(now) > cutoff {
			evicted++
			continue
		}
		next[k] = v
	}
	if evicted > 0 {
		r.m.Store(next)
		flowguardlog.RuleUpdate("node-eviction", evicted)
	}
}

// RunEvictionLoop starts the background idle-eviction sweep; it blocks
// until stop is closed, the single low-frequency background task spec §5
// calls for.
func (r *Registry) RunEvictionLoop(interval time.Duration, maxIdle time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			r.EvictIdle(maxIdle)
		}
	}
}
