// Package clock provides the engine's time source. Every hot-path read of
// "now" goes through here so tests can inject a fake clock instead of
// sleeping real wall-clock time.
package clock

import "time"

// Clock is the collaborator contract for a monotonic millisecond time
// source (spec §6, "Collaborator contracts").
type Clock interface {
	// NowMs returns the current time in milliseconds since the Unix epoch.
	NowMs() int64
	// Now returns the current time.
	Now() time.Time
}

type realClock struct{}

func (realClock) NowMs() int64 { return time.Now().UnixMilli() }
func (realClock) Now() time.Time { return time.Now() }

// Real is the default Clock backed by the OS wall clock.
var Real Clock = realClock{}

// Fake is a Clock for tests: it never advances on its own, only when told to.
type Fake struct {
	ms int64
}

// NewFake creates a Fake clock starting at the given millisecond timestamp.
func NewFake(startMs int64) *Fake {
	return &Fake{ms: startMs}
}

func (f *Fake) NowMs() int64 { return f.ms }
func (f *Fake) Now() time.Time { return time.UnixMilli(f.ms) }

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.ms += d.Milliseconds()
}

// Set pins the fake clock to an absolute millisecond timestamp.
func (f *Fake) Set(ms int64) {
	f.ms = ms
}
