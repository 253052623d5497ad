package flow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/scontext"
)

func newTestEntry(t *testing.T, resource string) *scontext.Entry {
	reg := scontext.NewRegistry(config.New(), clock.Real)
	ctx, err := reg.Enter("test", "test-origin")
	require.NoError(t, err)
	return scontext.NewEntry(ctx, base.NewResource(resource, base.Inbound), base.Inbound, 1, clock.Real.NowMs())
}

func TestManager_LoadRulesDropsInvalidRule(t *testing.T) {
	m := NewManager(clock.Real, nil)
	m.LoadRules([]*Rule{
		{Resource: "", Grade: GradeQPS, Count: 1}, // empty resource: invalid
		{Resource: "valid", Grade: GradeQPS, Count: 1},
	})
	require.Empty(t, m.RulesFor(""))
	require.Len(t, m.RulesFor("valid"), 1)
}

func TestManager_ReloadRebuildsShaperStateFresh(t *testing.T) {
	fake := clock.NewFake(100000)
	m := NewManager(fake, nil)
	rule := &Rule{Resource: "checkout", Grade: GradeQPS, Count: 1, ControlBehavior: BehaviorThrottling, MaxQueueingTimeMs: 10}
	m.LoadRules([]*Rule{rule})

	entry := newTestEntry(t, "checkout") // ClusterNode stays nil: throttling's CanPass never reads it

	ok, _ := m.CheckPass(context.Background(), entry, nil, 1, false)
	require.True(t, ok, "first call establishes the leaky-bucket's last-passed timestamp")

	ok, _ = m.CheckPass(context.Background(), entry, nil, 1, false)
	require.False(t, ok, "immediately repeating exceeds the 1/sec rate with no queueing room")

	// Reloading the identical rule set must rebuild the shaper from
	// scratch rather than carry over the previous generation's
	// last-passed timestamp.
	m.LoadRules([]*Rule{rule})
	ok, _ = m.CheckPass(context.Background(), entry, nil, 1, false)
	require.True(t, ok, "a freshly reloaded shaper has no memory of the prior generation's timestamp")
}
