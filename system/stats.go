package system

import (
	"go.uber.org/atomic"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/stat"
)

// InboundStats aggregates statistics across every resource's inbound
// traffic only, the scope spec §4.6 checks against ("total concurrent
// threads across all resources", "total inbound QPS", "average RT across
// inbound traffic"). Per-resource nodes don't separate traffic direction,
// so this is a dedicated rollup the slot chain feeds directly for every
// base.Inbound entry (spec §4.2, SystemSlot).
type InboundStats struct {
	metric  *stat.SlidingWindowMetric
	threads stat.ThreadCount
	peakQPS atomic.Float64
}

// NewInboundStats builds an empty rollup with the same short window as a
// node (2 buckets over 1s) and a long window of cfg.TotalMetricIntervalMS
// split into cfg.SampleCount buckets, coarser than a node's long window.
func NewInboundStats(cfg *config.Config, clk clock.Clock) *InboundStats {
	return &InboundStats{
		metric: stat.New(2, 1000, cfg.SampleCount(), cfg.TotalMetricIntervalMS(), cfg.StatisticMaxRt(), clk.NowMs),
	}
}

func (s *InboundStats) OnEnter() { s.threads.Increase() }
func (s *InboundStats) OnExit()  { s.threads.Decrease() }

func (s *InboundStats) OnPass()             { s.metric.AddPass(1) }
func (s *InboundStats) OnBlock()            { s.metric.AddBlock(1) }
func (s *InboundStats) OnComplete(rtMs int64, success bool) {
	s.metric.AddRT(rtMs)
	if success {
		s.metric.AddSuccess(1)
	} else {
		s.metric.AddException(1)
	}
	if qps := s.metric.PassQPS(); qps > s.peakQPS.Load() {
		s.peakQPS.Store(qps)
	}
}

func (s *InboundStats) ConcurrentThreads() int64 { return int64(s.threads.Current()) }
func (s *InboundStats) QPS() float64             { return s.metric.PassQPS() }
func (s *InboundStats) AvgRT() float64           { return s.metric.AvgRT() }
func (s *InboundStats) PeakQPS() float64         { return s.peakQPS.Load() }
func (s *InboundStats) MinRT() float64           { return s.metric.MinRT() }
