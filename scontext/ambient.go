package scontext

import "context"

// ctxKey is the context.Context value key used to carry a *Context across
// goroutine-hopping async continuations (spec §5, "Context binding").
type ctxKey struct{}

// WithContext attaches fc to a standard context.Context so it survives a
// handoff to another goroutine — the Go-idiomatic replacement for the
// reference model's implicit ThreadLocal propagation. A caller that
// doesn't propagate it gets the documented fallback: statistics land on
// the default context (spec §5).
func WithContext(ctx context.Context, fc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, fc)
}

// FromContext retrieves a *Context previously attached with WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	fc, ok := ctx.Value(ctxKey{}).(*Context)
	return fc, ok
}
