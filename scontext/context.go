// Package scontext implements the invocation context (spec §4.1,
// "Context & Entry Lifecycle"): a per-task structure carrying a name, an
// origin, a root node and the currently active Entry, plus the Entry
// stack invariant itself.
//
// Go has no per-OS-thread storage the way the reference model's
// ThreadLocal does, so binding is explicit here: callers hold the
// *Context returned by Enter and pass it to Entry/Exit. WithContext and
// FromContext (ambient.go) carry a *Context inside a context.Context for
// callers that hand work across goroutines.
package scontext

import (
	"fmt"
	"sync"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/node"
)

// Context is a per-task invocation-tree root (spec §3, "Context").
type Context struct {
	Name   string
	Origin string

	rootNode *node.DefaultNode
	curEntry *Entry

	cfg *config.Config
	clk clock.Clock
}

func newContext(name, origin string, cfg *config.Config, clk clock.Clock) *Context {
	return &Context{
		Name:     name,
		Origin:   origin,
		rootNode: node.NewDefaultNode(name, cfg, clk),
		cfg:      cfg,
		clk:      clk,
	}
}

// CurEntry returns the entry currently on top of this context's stack, or
// nil if the stack is empty.
func (c *Context) CurEntry() *Entry { return c.curEntry }

// RootNode is the DefaultNode anchoring this context's invocation tree —
// the NodeSelectorSlot resolves child DefaultNodes from here (spec §4.2).
func (c *Context) RootNode() *node.DefaultNode { return c.rootNode }

// push installs e as the new top of stack, linking it to the previous top
// as parent (spec §3 Entry, "a reference to its parent entry").
func (c *Context) push(e *Entry) {
	e.parent = c.curEntry
	c.curEntry = e
}

// pop enforces the LIFO invariant (spec §4.1, invariant 1/2): e must be
// the current top. If it isn't, ErrorEntryFree fires and the whole
// context is cleared to avoid cascading corruption (spec §7).
func (c *Context) pop(e *Entry) error {
	if c.curEntry != e {
		flowguardlog.ErrorEntryFree(c.Name, e.Resource.Name)
		c.curEntry = nil
		return &ErrorEntryFree{ContextName: c.Name, Resource: e.Resource.Name}
	}
	c.curEntry = e.parent
	return nil
}

// ErrorEntryFree signals an exit that did not match the top of its
// context's stack (spec §4.1, §7 "Pairing errors").
type ErrorEntryFree struct {
	ContextName string
	Resource    string
}

func (e *ErrorEntryFree) Error() string {
	return fmt.Sprintf("flowguard: ErrorEntryFree in context %q for resource %q: exit did not match stack top", e.ContextName, e.Resource)
}

// Registry binds Context instances by name, bounded by
// config.MaxContextNameSize (spec §4.1, "fails with ContextOverflow").
type Registry struct {
	mu   sync.Mutex
	byName map[string]*Context
	cfg  *config.Config
	clk  clock.Clock
}

// NewRegistry builds an empty context Registry.
func NewRegistry(cfg *config.Config, clk clock.Clock) *Registry {
	return &Registry{byName: make(map[string]*Context), cfg: cfg, clk: clk}
}

// ErrContextOverflow is returned by Enter when the process already tracks
// config.MaxContextNameSize distinct context names.
type ErrContextOverflow struct{ Limit int }

func (e *ErrContextOverflow) Error() string {
	return fmt.Sprintf("flowguard: context name overflow, limit is %d", e.Limit)
}

// Enter binds (creating if absent) the Context for name. If one already
// exists under that name it is returned unchanged — a caller supplying a
// different origin for an already-bound name is tolerated, the existing
// binding wins (spec §4.1).
func (r *Registry) Enter(name, origin string) (*Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byName[name]; ok {
		return c, nil
	}
	if len(r.byName) >= r.cfg.MaxContextNameSize() {
		return nil, &ErrContextOverflow{Limit: r.cfg.MaxContextNameSize()}
	}
	c := newContext(name, origin, r.cfg, r.clk)
	r.byName[name] = c
	return c, nil
}

// Default returns the well-known fallback context (spec §4.1: "creating a
// default one named sentinel_default_context with empty origin if
// absent").
func (r *Registry) Default() (*Context, error) {
	return r.Enter(base.DefaultContextName, "")
}

// Remove drops a context binding entirely, e.g. after ErrorEntryFree.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, name)
}

// Len reports how many distinct context names are currently bound.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}
