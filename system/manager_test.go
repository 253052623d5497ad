package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/sysprobe"
)

func TestManager_NoRulesAlwaysPasses(t *testing.T) {
	m := NewManager(config.New(), clock.NewFake(0), sysprobe.Static{})
	ok, rule := m.Check()
	require.True(t, ok)
	require.Nil(t, rule)
}

func TestManager_MaxThreadBlocksOverThreshold(t *testing.T) {
	m := NewManager(config.New(), clock.NewFake(0), sysprobe.Static{})
	m.LoadRules([]*Rule{{EnableMaxThread: true, MaxThread: 2}})

	m.Stats.OnEnter()
	m.Stats.OnEnter()
	ok, _ := m.Check()
	require.True(t, ok, "two concurrent threads is at, not over, the threshold")

	m.Stats.OnEnter()
	ok, rule := m.Check()
	require.False(t, ok)
	require.NotNil(t, rule)
}

func TestManager_CPUUsageBlocksOverThreshold(t *testing.T) {
	m := NewManager(config.New(), clock.NewFake(0), sysprobe.Static{CPU: 0.95})
	m.LoadRules([]*Rule{{EnableCPUUsage: true, CPUUsage: 0.9}})

	ok, rule := m.Check()
	require.False(t, ok)
	require.NotNil(t, rule)
}

func TestManager_LoadRulesDropsInvalidCPUThreshold(t *testing.T) {
	m := NewManager(config.New(), clock.NewFake(0), sysprobe.Static{})
	m.LoadRules([]*Rule{{EnableCPUUsage: true, CPUUsage: 1.5}})
	require.Empty(t, m.GetRules())
}

func TestManager_DisabledThresholdsAreNoOps(t *testing.T) {
	m := NewManager(config.New(), clock.NewFake(0), sysprobe.Static{CPU: 1.0, Load: 1000})
	m.LoadRules([]*Rule{{MaxThread: 1}}) // every Enable* flag left false

	ok, _ := m.Check()
	require.True(t, ok)
}
