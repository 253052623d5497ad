package node

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
)

func smallCapConfig(max int) *config.Config {
	cfg := config.New()
	v := viper.New()
	v.Set("max_resource_count", max)
	cfg.LoadViper(v)
	return cfg
}

func TestRegistry_ClusterNodeForReusesSameNodePerResource(t *testing.T) {
	reg := NewRegistry(config.New(), clock.Real)
	a := reg.ClusterNodeFor("checkout")
	b := reg.ClusterNodeFor("checkout")
	require.Same(t, a, b)
	require.Equal(t, 1, reg.Len())
}

func TestRegistry_BeyondCapReturnsSharedUntrackedSink(t *testing.T) {
	reg := NewRegistry(smallCapConfig(2), clock.Real)
	a := reg.ClusterNodeFor("one")
	b := reg.ClusterNodeFor("two")
	require.NotSame(t, a, b)
	require.Equal(t, 2, reg.Len())

	c := reg.ClusterNodeFor("three")
	require.Equal(t, 2, reg.Len(), "third distinct resource doesn't grow the registry")
	require.NotSame(t, a, c)
	require.NotSame(t, b, c)

	again := reg.ClusterNodeFor("four")
	require.Same(t, c, again, "every resource past the cap shares the same untracked sink")
}

func TestRegistry_EvictIdleDropsStaleNodesOnceAtCap(t *testing.T) {
	fake := clock.NewFake(100000)
	reg := NewRegistry(smallCapConfig(2), fake)

	reg.ClusterNodeFor("stale")
	fake.Advance(time.Hour)
	reg.ClusterNodeFor("fresh")
	require.Equal(t, 2, reg.Len())

	reg.EvictIdle(time.Minute)
	require.Equal(t, 1, reg.Len())

	var remaining string
	reg.Range(func(resource string, n *ClusterNode) { remaining = resource })
	require.Equal(t, "fresh", remaining)
}

func TestRegistry_EvictIdleNoOpBelowCap(t *testing.T) {
	fake := clock.NewFake(100000)
	reg := NewRegistry(config.New(), fake)
	reg.ClusterNodeFor("only")
	fake.Advance(time.Hour)

	reg.EvictIdle(time.Minute)
	require.Equal(t, 1, reg.Len(), "eviction only runs once the resource cap is reached")
}

func TestClusterNode_OriginNodeReusedAndExcludable(t *testing.T) {
	n := newClusterNode("checkout", config.New(), clock.Real)
	a := n.OriginNode("app-a")
	b := n.OriginNode("app-a")
	require.Same(t, a, b)

	n.OriginNode("app-b")
	others := n.OriginNodesExcept(map[string]struct{}{"app-a": {}})
	require.Len(t, others, 1)
	require.Equal(t, "app-b", others[0].Origin)
}

func TestDefaultNode_ChildOrCreateReusedPerSubResource(t *testing.T) {
	root := NewDefaultNode("checkout", config.New(), clock.Real)
	c1 := root.ChildOrCreate("db-query")
	c2 := root.ChildOrCreate("db-query")
	require.Same(t, c1, c2)
	require.Equal(t, "db-query", c1.Resource)
}

func TestStatistic_ThreadCountGauge(t *testing.T) {
	n := NewDefaultNode("checkout", config.New(), clock.Real)
	n.IncreaseThreadCount()
	n.IncreaseThreadCount()
	require.Equal(t, int32(2), n.CurrentThreadCount())
	n.DecreaseThreadCount()
	require.Equal(t, int32(1), n.CurrentThreadCount())
}
