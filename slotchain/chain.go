// Package slotchain implements the fixed, extensible pipeline every
// Entry runs through before admission (spec §4.2, "Slot Chain").
package slotchain

import (
	"context"
	"sort"
	"sync"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/scontext"
)

// Slot is one pipeline stage. Unlike spec.md's entry/exit pair, a Go
// Slot only implements OnEntry; exit-time cleanup is registered with
// entry.AddExitHandler during OnEntry itself, reusing the Entry's
// existing reverse-order exit-handler list instead of a parallel OnExit
// dispatch (see scontext.Entry's doc comment on ExitHandler).
type Slot interface {
	// Priority orders the chain; canonical slots use multiples of 100
	// (spec §4.2's listed order). Ties break by registration order
	// (spec §4.2, "Extension").
	Priority() int
	OnEntry(goCtx context.Context, ctx *scontext.Context, entry *scontext.Entry, count int64, prioritized bool, args ...interface{}) base.BlockError
}

// BlockObserver is implemented by slots that want to react to any block
// decision regardless of which slot raised it (LogSlot's role, spec §4.2
// point 3: "records block events to a recorder").
type BlockObserver interface {
	OnBlock(ctx *scontext.Context, entry *scontext.Entry, err base.BlockError)
}

type registered struct {
	slot  Slot
	order int
}

// Chain holds the ordered, extensible slot pipeline.
type Chain struct {
	mu        sync.RWMutex
	slots     []registered
	observers []BlockObserver
	nextOrder int
}

// NewChain builds an empty chain; Register the canonical slots plus any
// extensions onto it.
func NewChain() *Chain {
	return &Chain{}
}

// Register adds a slot, re-sorting by (priority, registration order)
// (spec §4.2, "Extension: the registry admits additional slots ordered
// by a numeric priority; ties are broken by registration order").
func (c *Chain) Register(s Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.slots = append(c.slots, registered{slot: s, order: c.nextOrder})
	c.nextOrder++
	sort.SliceStable(c.slots, func(i, j int) bool {
		if c.slots[i].slot.Priority() != c.slots[j].slot.Priority() {
			return c.slots[i].slot.Priority() < c.slots[j].slot.Priority()
		}
		return c.slots[i].order < c.slots[j].order
	})

	if obs, ok := s.(BlockObserver); ok {
		c.observers = append(c.observers, obs)
	}
}

func (c *Chain) ordered() []Slot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Slot, len(c.slots))
	for i, r := range c.slots {
		out[i] = r.slot
	}
	return out
}

// RunEntry drives every slot in order. On the first block, subsequent
// slots are not invoked, every registered BlockObserver is notified, and
// the entry's already-registered exit handlers run via AbortCleanup so
// earlier slots (e.g. StatisticSlot's thread-count increment) still see
// their matching cleanup (spec §4.2, "prior slots' exit-handlers still
// run on exit").
func (c *Chain) RunEntry(goCtx context.Context, ctx *scontext.Context, entry *scontext.Entry, count int64, prioritized bool, args ...interface{}) base.BlockError {
	for _, s := range c.ordered() {
		if err := c.runSlot(s, goCtx, ctx, entry, count, prioritized, args...); err != nil {
			entry.BlockError = err
			addStat(entry, func(n base.StatNode) { n.AddBlock(count) })
			for _, obs := range c.observers {
				obs.OnBlock(ctx, entry, err)
			}
			entry.AbortCleanup(count, args...)
			return err
		}
	}
	// Pass is credited only once every gate has admitted the call, not
	// optimistically at entry: crediting it earlier would let a call's
	// own attempt count against its own threshold check, and a blocked
	// call would still inflate the metric future checks read (spec §4.2
	// step 4 / §4.4, rejectController.CanPass's cur+acquireCount<=Count
	// assumes cur excludes the call being measured).
	addStat(entry, func(n base.StatNode) { n.AddPass(count) })
	entry.Push()
	return nil
}

// addStat applies fn to every node resolved for entry (default, cluster,
// origin). DefaultNode is always set by NodeSelectorSlot before any slot
// can block, so it is never nil here; ClusterNode/OriginNode are set by
// ClusterBuilderSlot and are nil only when a slot before it blocked.
func addStat(entry *scontext.Entry, fn func(base.StatNode)) {
	if entry.DefaultNode != nil {
		fn(entry.DefaultNode)
	}
	if entry.ClusterNode != nil {
		fn(entry.ClusterNode)
	}
	if entry.OriginNode != nil {
		fn(entry.OriginNode)
	}
}

// runSlot recovers a panicking slot and fails open (spec §7, "Internal
// errors": "recovered via defer/recover at the slot-chain boundary,
// logged at WARN, treated as pass").
func (c *Chain) runSlot(s Slot, goCtx context.Context, ctx *scontext.Context, entry *scontext.Entry, count int64, prioritized bool, args ...interface{}) (blockErr base.BlockError) {
	defer func() {
		if r := recover(); r != nil {
			flowguardlog.Fatal(entry.Resource.Name, r)
			blockErr = nil
		}
	}()
	return s.OnEntry(goCtx, ctx, entry, count, prioritized, args...)
}
