package metricsexport

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/node"
)

func TestCollector_CollectReflectsNodeCounters(t *testing.T) {
	registry := node.NewRegistry(config.New(), clock.NewFake(0))
	n := registry.ClusterNodeFor("checkout")
	n.AddPass(3)
	n.AddBlock(1)

	c := New(registry)

	expected := strings.NewReader(`
# HELP flowguard_pass_total Total calls admitted for a resource.
# TYPE flowguard_pass_total counter
flowguard_pass_total{resource="checkout"} 3
# HELP flowguard_block_total Total calls blocked for a resource.
# TYPE flowguard_block_total counter
flowguard_block_total{resource="checkout"} 1
`)
	require.NoError(t, testutil.CollectAndCompare(c, expected,
		"flowguard_pass_total", "flowguard_block_total"))
}

func TestCollector_EmptyRegistryExportsNothing(t *testing.T) {
	registry := node.NewRegistry(config.New(), clock.NewFake(0))
	c := New(registry)

	count := testutil.CollectAndCount(c)
	require.Zero(t, count, "a registry with no resolved resources exports nothing")
}
