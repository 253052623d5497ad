package flowguard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard"
	"github.com/jspang582/flowguard/authority"
	"github.com/jspang582/flowguard/base"
	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/flow"
)

var errTestTrace = errors.New("flowguard_test: traced failure")

// Scenario A (SPEC_FULL.md §8): a QPS reject rule admits up to its
// threshold per short window and blocks the rest.
func TestEntry_FlowRejectBlocksOverThreshold(t *testing.T) {
	fake := clock.NewFake(0)
	engine := flowguard.NewEngine(flowguard.WithClock(fake))
	engine.Flow.LoadRules([]*flow.Rule{
		{Resource: "check-out", Grade: flow.GradeQPS, Count: 2, ControlBehavior: flow.BehaviorReject},
	})

	var blocked int
	for i := 0; i < 5; i++ {
		entry, err := engine.Entry("check-out")
		if err != nil {
			blocked++
			require.ErrorAs(t, err, new(*base.FlowError))
			continue
		}
		entry.Exit()
	}
	require.Equal(t, 3, blocked)
}

// Scenario D: an exit that doesn't match the top of the context's entry
// stack raises ErrorEntryFree and clears the context rather than
// corrupting it silently.
func TestEntry_MismatchedExitRaisesErrorEntryFree(t *testing.T) {
	engine := flowguard.NewEngine()

	outer, err := engine.Entry("outer")
	require.NoError(t, err)
	inner, err := engine.Entry("inner")
	require.NoError(t, err)

	err = outer.Exit()
	require.Error(t, err)

	// The mismatch already cleared the context's stack, so the later
	// exit for inner (now orphaned) raises its own ErrorEntryFree rather
	// than silently succeeding.
	require.Error(t, inner.Exit())
}

// AuthoritySlot blocks origins not on a whitelist rule before FlowSlot
// ever runs.
func TestEntry_AuthorityBlocksUnlistedOrigin(t *testing.T) {
	engine := flowguard.NewEngine()
	engine.Authority.LoadRules([]*authority.Rule{
		{Resource: "admin-panel", LimitApps: []string{"internal"}, Strategy: authority.White},
	})

	_, err := engine.Entry("admin-panel",
		flowguard.WithContextName("public-caller"), flowguard.WithOrigin("public"))
	require.ErrorAs(t, err, new(*base.AuthorityError))

	entry, err := engine.Entry("admin-panel",
		flowguard.WithContextName("internal-caller"), flowguard.WithOrigin("internal"))
	require.NoError(t, err)
	entry.Exit()
}

// Trace attributes an exception to an entry so the exception-ratio
// circuit breaker sees it on the next OnComplete.
func TestTrace_AttributesExceptionBeforeExit(t *testing.T) {
	engine := flowguard.NewEngine()
	entry, err := engine.Entry("risky-call")
	require.NoError(t, err)

	flowguard.Trace(entry, errTestTrace)
	require.Equal(t, errTestTrace, entry.TracedError())
	entry.Exit()
}

func TestEntryOK_ReturnsFalseOnBlock(t *testing.T) {
	engine := flowguard.NewEngine()
	engine.Flow.LoadRules([]*flow.Rule{
		{Resource: "checkout", Grade: flow.GradeQPS, Count: 0, ControlBehavior: flow.BehaviorReject},
	})

	_, ok := engine.EntryOK("checkout")
	require.False(t, ok)
}
