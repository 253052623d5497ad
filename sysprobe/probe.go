// Package sysprobe supplies the "time source / system probe / logger"
// collaborator contract spec §6 assigns to the embedding environment for
// the system probe half: "{cpuUsage, systemLoad, maxThread} on demand".
package sysprobe

// Probe returns the current OS-level measurements the system admission
// gate (package system) checks against its thresholds.
type Probe interface {
	CPUUsage() float64  // 0..1
	SystemLoad() float64 // 1-minute load average
	MaxThread() int64   // process-wide concurrency ceiling hint, e.g. GOMAXPROCS-derived
}

// Static is a fixed-value Probe, useful for tests and for embedders on
// platforms procfs doesn't cover.
type Static struct {
	CPU    float64
	Load   float64
	Thread int64
}

func (s Static) CPUUsage() float64   { return s.CPU }
func (s Static) SystemLoad() float64 { return s.Load }
func (s Static) MaxThread() int64    { return s.Thread }
