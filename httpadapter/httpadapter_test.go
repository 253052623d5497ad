package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard"
	"github.com/jspang582/flowguard/authority"
	"github.com/jspang582/flowguard/flow"
)

func TestMiddleware_BlocksSecondRequestOverThreshold(t *testing.T) {
	engine := flowguard.NewEngine()
	engine.Flow.LoadRules([]*flow.Rule{
		{Resource: "GET /widgets", Grade: flow.GradeQPS, Count: 1, ControlBehavior: flow.BehaviorReject},
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(engine, next)

	req := httptest.NewRequest(http.MethodGet, "/widgets", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestMiddleware_AuthorityBlockReturns403(t *testing.T) {
	engine := flowguard.NewEngine()
	engine.Authority.LoadRules([]*authority.Rule{
		{Resource: "GET /admin", LimitApps: []string{"trusted"}, Strategy: authority.White},
	})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(engine, next, WithOrigin(func(r *http.Request) string { return "untrusted" }))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTransport_BlocksOverThreshold(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	const resource = "backend-call"
	engine := flowguard.NewEngine()
	engine.Flow.LoadRules([]*flow.Rule{
		{Resource: resource, Grade: flow.GradeQPS, Count: 1, ControlBehavior: flow.BehaviorReject},
	})

	client := &http.Client{Transport: Transport(engine, nil, func(r *http.Request) string {
		return resource
	})}

	resp, err := client.Get(backend.URL)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err = client.Get(backend.URL)
	require.Error(t, err)
}
