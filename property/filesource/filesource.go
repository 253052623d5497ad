// Package filesource polls a YAML file on disk and pushes its decoded
// rule list to a property.Listener on every change — a worked example
// of an external property.Source, grounded in spec §1's explicit
// allowance for a file-based config source (gopkg.in/yaml.v3, already a
// transitive dependency of the pack's spf13/viper stack).
package filesource

import (
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/property"
)

// Source polls path every interval and decodes it as a YAML list of T.
// It never fails ConfigUpdate: a decode error is logged and the prior
// rule set is kept, matching property.Source.ConfigUpdate having no
// error return (spec §7).
type Source[T any] struct {
	path     string
	interval time.Duration

	mu       sync.Mutex
	lastMod  time.Time
	lastGood []T

	stop chan struct{}
	done chan struct{}
}

// New builds a Source for path, polled at interval.
func New[T any](path string, interval time.Duration) *Source[T] {
	return &Source[T]{path: path, interval: interval, stop: make(chan struct{})}
}

// ConfigLoad decodes the file once and returns its rule list, seeding a
// manager before Watch starts delivering change notifications.
func (s *Source[T]) ConfigLoad() ([]T, error) {
	rules, _, err := s.read()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastGood = rules
	s.mu.Unlock()
	return rules, nil
}

func (s *Source[T]) read() ([]T, time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	var rules []T
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, time.Time{}, err
	}
	return rules, info.ModTime(), nil
}

// Watch reads the file once, delivers that initial rule set to
// listener.ConfigUpdate and primes lastMod, then starts a background poll
// loop that calls listener.ConfigUpdate again whenever the file's mtime
// advances.
func (s *Source[T]) Watch(listener property.Listener[T]) error {
	rules, mod, err := s.read()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lastGood = rules
	s.lastMod = mod
	s.mu.Unlock()
	listener.ConfigUpdate(rules)

	s.done = make(chan struct{})
	go s.poll(listener)
	return nil
}

func (s *Source[T]) poll(listener property.Listener[T]) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			rules, mod, err := s.read()
			if err != nil {
				flowguardlog.RuleDropped("property/filesource", err.Error(), stringerFunc(s.path))
				continue
			}
			s.mu.Lock()
			changed := mod.After(s.lastMod)
			if changed {
				s.lastMod = mod
				s.lastGood = rules
			}
			s.mu.Unlock()
			if changed {
				listener.ConfigUpdate(rules)
			}
		}
	}
}

// Close stops the poll loop and waits for it to exit.
func (s *Source[T]) Close() error {
	close(s.stop)
	if s.done != nil {
		<-s.done
	}
	return nil
}

type stringerFunc string

func (s stringerFunc) String() string { return string(s) }
