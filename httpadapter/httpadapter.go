// Package httpadapter binds an Engine to net/http: a server-side
// middleware that guards inbound handlers, and a RoundTripper that
// guards outbound requests. This is a thin illustrative binding, not
// part of the core admission path — nothing in slotchain or
// flow/circuitbreaker/system depends on it.
package httpadapter

import (
	"net/http"

	"github.com/jspang582/flowguard"
	"github.com/jspang582/flowguard/base"
)

// ResourceNamer derives the resource name an inbound request is checked
// against. DefaultResourceNamer uses the request method and URL path.
type ResourceNamer func(r *http.Request) string

// DefaultResourceNamer names a resource "<METHOD> <path>".
func DefaultResourceNamer(r *http.Request) string {
	return r.Method + " " + r.URL.Path
}

// BlockHandler responds to a blocked inbound request. DefaultBlockHandler
// writes 429 for flow/circuit-breaker/system blocks and 403 for
// authority blocks.
type BlockHandler func(w http.ResponseWriter, r *http.Request, err base.BlockError)

// DefaultBlockHandler writes a minimal status-coded response body.
func DefaultBlockHandler(w http.ResponseWriter, _ *http.Request, err base.BlockError) {
	status := http.StatusTooManyRequests
	if _, ok := err.(*base.AuthorityError); ok {
		status = http.StatusForbidden
	}
	http.Error(w, err.Error(), status)
}

// Middleware options, following the package's functional-options idiom.
type Option func(*middleware)

// WithResourceNamer overrides DefaultResourceNamer.
func WithResourceNamer(f ResourceNamer) Option { return func(m *middleware) { m.namer = f } }

// WithBlockHandler overrides DefaultBlockHandler.
func WithBlockHandler(f BlockHandler) Option { return func(m *middleware) { m.onBlock = f } }

// WithOrigin derives the caller-identity label authority/flow LimitApp
// rules key off; defaults to r.RemoteAddr.
func WithOrigin(f func(r *http.Request) string) Option { return func(m *middleware) { m.origin = f } }

type middleware struct {
	engine  *flowguard.Engine
	namer   ResourceNamer
	onBlock BlockHandler
	origin  func(r *http.Request) string
}

// Middleware wraps next so every inbound request runs through engine's
// slot chain before reaching the handler.
func Middleware(engine *flowguard.Engine, next http.Handler, opts ...Option) http.Handler {
	m := &middleware{
		engine:  engine,
		namer:   DefaultResourceNamer,
		onBlock: DefaultBlockHandler,
		origin:  func(r *http.Request) string { return r.RemoteAddr },
	}
	for _, o := range opts {
		o(m)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, err := m.engine.Entry(m.namer(r),
			flowguard.WithOrigin(m.origin(r)),
			flowguard.WithGoContext(r.Context()),
		)
		if err != nil {
			blockErr, ok := err.(base.BlockError)
			if !ok {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			m.onBlock(w, r, blockErr)
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				flowguard.Trace(entry, http.ErrAbortHandler)
				entry.Exit()
				panic(rec)
			}
			entry.Exit()
		}()
		next.ServeHTTP(w, r)
	})
}

// transport implements http.RoundTripper, checking the engine before
// forwarding outbound requests.
type transport struct {
	engine *flowguard.Engine
	base   http.RoundTripper
	namer  ResourceNamer
}

// Transport wraps base (http.DefaultTransport if nil) so every outbound
// request made through it is checked against engine first.
func Transport(engine *flowguard.Engine, base http.RoundTripper, namer ResourceNamer) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if namer == nil {
		namer = DefaultResourceNamer
	}
	return &transport{engine: engine, base: base, namer: namer}
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	entry, err := t.engine.Entry(t.namer(req),
		flowguard.WithTraffic(base.Outbound),
		flowguard.WithGoContext(req.Context()),
	)
	if err != nil {
		return nil, err
	}
	resp, rtErr := t.base.RoundTrip(req)
	if rtErr != nil {
		flowguard.Trace(entry, rtErr)
	}
	entry.Exit()
	return resp, rtErr
}
