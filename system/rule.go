// Package system implements the single global system-load admission
// gate (spec §4.6), consulted only for inbound traffic.
package system

import "fmt"

// Rule holds the five independently-optional thresholds spec §4.6
// names. The gate checks a threshold only when its Enable* flag is set;
// an enabled threshold is enforced even when its value is zero.
type Rule struct {
	MaxThread int64
	QPS       float64
	AvgRTMs   float64
	Load      float64
	CPUUsage  float64 // 0..1

	// Enabled marks which of the five thresholds above are active; a
	// rule with none enabled is a no-op.
	EnableMaxThread bool
	EnableQPS       bool
	EnableAvgRT     bool
	EnableLoad      bool
	EnableCPUUsage  bool
}

func (r *Rule) ResourceName() string { return "" } // system rules are global, not resource-keyed

func (r *Rule) String() string {
	return fmt.Sprintf("SystemRule{maxThread=%d, qps=%v, avgRt=%v, load=%v, cpuUsage=%v}",
		r.MaxThread, r.QPS, r.AvgRTMs, r.Load, r.CPUUsage)
}

func (r *Rule) IsValid() error {
	if r.EnableCPUUsage && (r.CPUUsage < 0 || r.CPUUsage > 1) {
		return fmt.Errorf("system: cpuUsage %v out of [0,1]", r.CPUUsage)
	}
	return nil
}
