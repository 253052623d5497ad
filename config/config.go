// Package config holds the engine's tunable defaults (spec §6,
// "Configuration options") and an optional viper-backed overlay so an
// embedding process can override them from a file or the environment
// without touching code, matching the pack's config-layer convention
// (nearmeng-mango-go's plugin/config wraps spf13/viper the same way).
package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Defaults, verbatim from spec §6.
const (
	DefaultTotalMetricIntervalMS = 60000
	DefaultSampleCount           = 2
	DefaultStatisticMaxRt        = 4900
	DefaultMaxContextNameSize    = 2000
	DefaultMaxResourceCount      = 6000
	DefaultWarmUpColdFactor      = 3
)

// Config holds the live tunables. Zero value is invalid; use New().
type Config struct {
	mu sync.RWMutex

	totalMetricIntervalMS int64
	sampleCount           int
	statisticMaxRt         int64
	maxContextNameSize     int
	maxResourceCount       int
	warmUpColdFactor       int
}

// New returns a Config initialised to spec defaults.
func New() *Config {
	return &Config{
		totalMetricIntervalMS: DefaultTotalMetricIntervalMS,
		sampleCount:           DefaultSampleCount,
		statisticMaxRt:         DefaultStatisticMaxRt,
		maxContextNameSize:     DefaultMaxContextNameSize,
		maxResourceCount:       DefaultMaxResourceCount,
		warmUpColdFactor:       DefaultWarmUpColdFactor,
	}
}

// Global is the process-wide configuration used by packages that don't
// have an explicit Config threaded through.
var Global = New()

func (c *Config) TotalMetricIntervalMS() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalMetricIntervalMS
}

func (c *Config) SampleCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sampleCount
}

func (c *Config) StatisticMaxRt() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statisticMaxRt
}

func (c *Config) MaxContextNameSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxContextNameSize
}

func (c *Config) MaxResourceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxResourceCount
}

func (c *Config) WarmUpColdFactor() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.warmUpColdFactor
}

// LoadViper overlays any keys present in v onto c. Recognised keys (case
// insensitive, underscore-separated): total_metric_interval_ms,
// sample_count, statistic_max_rt, max_context_name_size,
// max_resource_count, warm_up_cold_factor.
func (c *Config) LoadViper(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	c.mu.Lock()
	defer c.mu.Unlock()

	if v.IsSet("total_metric_interval_ms") {
		c.totalMetricIntervalMS = v.GetInt64("total_metric_interval_ms")
	}
	if v.IsSet("sample_count") {
		c.sampleCount = v.GetInt("sample_count")
	}
	if v.IsSet("statistic_max_rt") {
		c.statisticMaxRt = v.GetInt64("statistic_max_rt")
	}
	if v.IsSet("max_context_name_size") {
		c.maxContextNameSize = v.GetInt("max_context_name_size")
	}
	if v.IsSet("max_resource_count") {
		c.maxResourceCount = v.GetInt("max_resource_count")
	}
	if v.IsSet("warm_up_cold_factor") {
		c.warmUpColdFactor = v.GetInt("warm_up_cold_factor")
	}
}
