// Package node implements the three node kinds of the resource/origin/
// cluster node graph (spec §3, "Node graph") and the bounded, persistent
// resource registry that owns ClusterNodes.
package node

import (
	"sync/atomic"

	"github.com/jspang582/flowguard/clock"
	"github.com/jspang582/flowguard/config"
	"github.com/jspang582/flowguard/stat"
)

// statistic is the shared statistics engine embedded by every node kind:
// a dual-window SlidingWindowMetric plus a live thread-count gauge. All
// three node kinds are otherwise identical at the statistics layer; they
// differ only in what they aggregate (spec §3).
type statistic struct {
	metric      *stat.SlidingWindowMetric
	threadCount stat.ThreadCount
	lastAccess  int64 // unix ms, used by the registry's idle eviction sweep
}

func newStatistic(cfg *config.Config, clk clock.Clock) *statistic {
	shortIntervalMs := int64(1000)
	shortSampleCount := 2
	longIntervalMs := cfg.TotalMetricIntervalMS()
	longSampleCount := cfg.SampleCount() * int(longIntervalMs/shortIntervalMs) / shortSampleCount
	if longSampleCount < 1 {
		longSampleCount = 60
	}
	m := stat.New(shortSampleCount, shortIntervalMs, longSampleCount, longIntervalMs, cfg.StatisticMaxRt(), clk.NowMs)
	return &statistic{metric: m, lastAccess: clk.NowMs()}
}

func (s *statistic) touch(nowMs int64) { atomic.StoreInt64(&s.lastAccess, nowMs) }
func (s *statistic) idleSince(nowMs int64) int64 { return nowMs - atomic.LoadInt64(&s.lastAccess) }

func (s *statistic) AddPass(n int64)      { s.metric.AddPass(n) }
func (s *statistic) AddBlock(n int64)     { s.metric.AddBlock(n) }
func (s *statistic) AddException(n int64) { s.metric.AddException(n) }
func (s *statistic) AddSuccess(n int64)   { s.metric.AddSuccess(n) }
func (s *statistic) AddRT(rt int64)       { s.metric.AddRT(rt) }

func (s *statistic) Pass() int64         { return s.metric.Pass() }
func (s *statistic) Block() int64        { return s.metric.Block() }
func (s *statistic) Exception() int64    { return s.metric.Exception() }
func (s *statistic) Success() int64      { return s.metric.Success() }
func (s *statistic) AvgRT() float64      { return s.metric.AvgRT() }
func (s *statistic) MinRT() float64      { return s.metric.MinRT() }
func (s *statistic) PassQPS() float64      { return s.metric.PassQPS() }
func (s *statistic) BlockQPS() float64     { return s.metric.BlockQPS() }
func (s *statistic) ExceptionQPS() float64 { return s.metric.ExceptionQPS() }
func (s *statistic) SuccessQPS() float64   { return s.metric.SuccessQPS() }
func (s *statistic) PreviousWindowPass() int64 { return s.metric.PreviousWindowPass() }

func (s *statistic) CurrentThreadCount() int32 { return s.threadCount.Current() }
func (s *statistic) IncreaseThreadCount()      { s.threadCount.Increase() }
func (s *statistic) DecreaseThreadCount()      { s.threadCount.Decrease() }

func (s *statistic) Reset() { s.metric.Reset() }
