// Package metricsexport publishes per-resource node statistics as
// Prometheus metrics (github.com/prometheus/client_golang, already a
// pack dependency via ccfos-nightingale's/zetxqx-gateway-api-inference-extension's
// metrics stacks). It is a worked example of an "external observer"
// binding, not part of the core admission path — nothing in slotchain
// depends on it.
package metricsexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jspang582/flowguard/node"
)

// Collector implements prometheus.Collector by snapshotting every
// ClusterNode tracked in a node.Registry on each scrape. It holds no
// state of its own between scrapes. Every Collector exports the same
// metric names, so one prometheus.Registry accepts only one Collector.
type Collector struct {
	registry *node.Registry

	pass      *prometheus.Desc
	block     *prometheus.Desc
	exception *prometheus.Desc
	success   *prometheus.Desc
	avgRT     *prometheus.Desc
	threads   *prometheus.Desc
}

// New builds a Collector over registry's tracked resources. Call
// prometheus.Register(collector) (or MustRegister) once per process.
func New(registry *node.Registry) *Collector {
	labels := []string{"resource"}
	return &Collector{
		registry:  registry,
		pass:      prometheus.NewDesc("flowguard_pass_total", "Total calls admitted for a resource.", labels, nil),
		block:     prometheus.NewDesc("flowguard_block_total", "Total calls blocked for a resource.", labels, nil),
		exception: prometheus.NewDesc("flowguard_exception_total", "Total calls that completed with an exception.", labels, nil),
		success:   prometheus.NewDesc("flowguard_success_total", "Total calls that completed successfully.", labels, nil),
		avgRT:     prometheus.NewDesc("flowguard_avg_rt_ms", "Mean round-trip time over the reporting window.", labels, nil),
		threads:   prometheus.NewDesc("flowguard_current_threads", "In-flight calls currently attributed to a resource.", labels, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pass
	ch <- c.block
	ch <- c.exception
	ch <- c.success
	ch <- c.avgRT
	ch <- c.threads
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.registry.Range(func(resource string, n *node.ClusterNode) {
		ch <- prometheus.MustNewConstMetric(c.pass, prometheus.CounterValue, float64(n.Pass()), resource)
		ch <- prometheus.MustNewConstMetric(c.block, prometheus.CounterValue, float64(n.Block()), resource)
		ch <- prometheus.MustNewConstMetric(c.exception, prometheus.CounterValue, float64(n.Exception()), resource)
		ch <- prometheus.MustNewConstMetric(c.success, prometheus.CounterValue, float64(n.Success()), resource)
		ch <- prometheus.MustNewConstMetric(c.avgRT, prometheus.GaugeValue, n.AvgRT(), resource)
		ch <- prometheus.MustNewConstMetric(c.threads, prometheus.GaugeValue, float64(n.CurrentThreadCount()), resource)
	})
}
