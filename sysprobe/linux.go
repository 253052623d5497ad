package sysprobe

import (
	"sync"
	"time"

	"github.com/prometheus/procfs"
)

// LinuxProbe samples /proc via prometheus/procfs, refreshed by a
// low-frequency background goroutine (spec §5: "one low-frequency
// background task refreshes system-load samples (≈1 Hz)"). CPUUsage is
// derived from the delta between consecutive /proc/stat samples, since a
// single snapshot only gives cumulative jiffy counters.
type LinuxProbe struct {
	mu        sync.RWMutex
	cpuUsage  float64
	load      float64
	maxThread int64

	fs                procfs.FS
	prevTotal, prevIdle float64
	primed            bool
}

// NewLinuxProbe opens the default procfs mount and primes one sample.
// maxThread is a fixed ceiling hint the caller supplies (spec leaves its
// source to the embedding environment).
func NewLinuxProbe(maxThread int64) (*LinuxProbe, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, err
	}
	p := &LinuxProbe{fs: fs, maxThread: maxThread}
	p.sample()
	return p, nil
}

func (p *LinuxProbe) sample() {
	if stat, err := p.fs.Stat(); err == nil {
		c := stat.CPUTotal
		idle := c.Idle + c.Iowait
		total := c.User + c.Nice + c.System + c.Idle + c.Iowait + c.IRQ + c.SoftIRQ + c.Steal

		p.mu.Lock()
		if p.primed {
			dTotal := total - p.prevTotal
			dIdle := idle - p.prevIdle
			if dTotal > 0 {
				p.cpuUsage = 1 - dIdle/dTotal
			}
		}
		p.prevTotal, p.prevIdle, p.primed = total, idle, true
		p.mu.Unlock()
	}

	if avg, err := p.fs.LoadAvg(); err == nil {
		p.mu.Lock()
		p.load = avg.Load1
		p.mu.Unlock()
	}
}

func (p *LinuxProbe) CPUUsage() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cpuUsage
}

func (p *LinuxProbe) SystemLoad() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.load
}

func (p *LinuxProbe) MaxThread() int64 { return p.maxThread }

// Run refreshes the sample on interval until stop is closed.
func (p *LinuxProbe) Run(interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			p.sample()
		}
	}
}
