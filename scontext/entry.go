package scontext

import (
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/node"
)

// ExitHandler is registered by a slot during OnEntry and invoked in
// reverse registration order when the Entry exits (spec §4.2, "prior
// slots' exit-handlers still run on exit"). It takes no error return. A
// panic raised by an exit handler is not recovered: it propagates out of
// Exit or AbortCleanup (the slot chain recovers panics from OnEntry only).
type ExitHandler func(ctx *Context, e *Entry, count int64, args ...interface{})

// Entry represents one in-flight protected call (spec §3, "Entry").
type Entry struct {
	ctx *Context

	CreatedMs int64
	Resource  base.Resource
	Traffic   base.TrafficType

	DefaultNode *node.DefaultNode
	ClusterNode *node.ClusterNode
	OriginNode  *node.OriginNode

	BatchCount int64
	BlockError base.BlockError

	parent *Entry

	exitHandlers []ExitHandler
	exited       bool

	// err is the traced exception for the exception-ratio/exception-count
	// breakers (spec §6, Tracer.trace).
	err error
}

// NewEntry allocates an Entry linked to ctx's current top entry but does
// not push it — the slot chain decides pass/block first (spec §4.1 step
// (b)/(c)).
func NewEntry(ctx *Context, resource base.Resource, traffic base.TrafficType, batchCount int64, nowMs int64) *Entry {
	return &Entry{
		ctx:        ctx,
		CreatedMs:  nowMs,
		Resource:   resource,
		Traffic:    traffic,
		BatchCount: batchCount,
		parent:     ctx.curEntry,
	}
}

// Context returns the Context this entry belongs to.
func (e *Entry) Context() *Context { return e.ctx }

// Parent returns the entry that was on top of the stack when this one was
// created.
func (e *Entry) Parent() *Entry { return e.parent }

// AddExitHandler registers a function to run (in reverse order) on Exit.
func (e *Entry) AddExitHandler(h ExitHandler) {
	e.exitHandlers = append(e.exitHandlers, h)
}

// Push installs this entry as the new top of its context's stack — called
// by the engine only after the slot chain passes (spec §4.1 step (e)).
func (e *Entry) Push() { e.ctx.push(e) }

// Trace attributes an exception to this entry, consulted by the
// exception-ratio / exception-count circuit breakers (spec §6, "Tracer").
func (e *Entry) Trace(err error) { e.err = err }

// TracedError returns whatever was last passed to Trace, or nil.
func (e *Entry) TracedError() error { return e.err }

// AbortCleanup runs registered exit handlers without popping the
// context's stack. It is used internally by the slot chain when a later
// slot blocks: the entry was never pushed (spec §4.1 step (d)), so there
// is nothing to pop, but earlier slots (e.g. StatisticSlot's thread-count
// increment) still need their matching decrement.
func (e *Entry) AbortCleanup(count int64, args ...interface{}) {
	if e.exited {
		return
	}
	e.exited = true
	for i := len(e.exitHandlers) - 1; i >= 0; i-- {
		e.exitHandlers[i](e.ctx, e, count, args...)
	}
}

// Exit pops the entry off its context's stack, enforcing the LIFO
// invariant (spec §4.1, §8 invariant 1/2). It is idempotent: a second
// call on an already-exited entry is a no-op, matching defer-based
// exit-once call sites. The count handed to exit handlers is the batch
// cost the entry was created with — callers that only want the common
// "bracket the call with defer e.Exit()" idiom never pass one.
func (e *Entry) Exit(args ...interface{}) error {
	if e.exited {
		return nil
	}
	e.exited = true

	for i := len(e.exitHandlers) - 1; i >= 0; i-- {
		e.exitHandlers[i](e.ctx, e, e.BatchCount, args...)
	}

	return e.ctx.pop(e)
}
