// Package sqlitesource polls a SQLite table for rule rows and pushes the
// decoded set to a property.Listener on every version bump — a worked
// example of a dashboard-push-style property.Source backed by a durable
// store rather than a live connection (modernc.org/sqlite). It persists
// rule definitions only, never historical metrics.
package sqlitesource

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jspang582/flowguard/flowguardlog"
	"github.com/jspang582/flowguard/property"
)

// Source polls a single logical rule set (identified by kind, e.g.
// "flow", "circuitbreaker", "system") stored as one JSON blob per row in
// a shared table, bumping a version column on every write so pollers can
// detect change cheaply.
type Source[T any] struct {
	db   *sql.DB
	kind string
	poll time.Duration

	mu         sync.Mutex
	lastVer    int64
	stop, done chan struct{}
}

// Open opens (or creates) a SQLite database at dsn, ensures the shared
// rule-set table exists, and returns a Source scoped to kind.
func Open[T any](dsn, kind string, pollInterval time.Duration) (*Source[T], error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitesource: open: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS flowguard_rule_sets (
			kind    TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL DEFAULT '[]'
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitesource: create table: %w", err)
	}
	return &Source[T]{db: db, kind: kind, poll: pollInterval, stop: make(chan struct{})}, nil
}

// Publish overwrites the stored rule set for this Source's kind and
// bumps its version, as an external dashboard/admin tool would. It is
// provided so examples and tests can drive a Source end-to-end without a
// separate writer.
func (s *Source[T]) Publish(ctx context.Context, rules []T) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO flowguard_rule_sets (kind, version, payload) VALUES (?, 1, ?)
		ON CONFLICT(kind) DO UPDATE SET version = version + 1, payload = excluded.payload
	`, s.kind, string(payload))
	return err
}

func (s *Source[T]) read(ctx context.Context) ([]T, int64, error) {
	var version int64
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM flowguard_rule_sets WHERE kind = ?`, s.kind,
	).Scan(&version, &payload)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var rules []T
	if err := json.Unmarshal([]byte(payload), &rules); err != nil {
		return nil, 0, err
	}
	return rules, version, nil
}

// ConfigLoad reads the current rule set without waiting for a poll tick.
func (s *Source[T]) ConfigLoad() ([]T, error) {
	rules, version, err := s.read(context.Background())
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastVer = version
	s.mu.Unlock()
	return rules, nil
}

// Watch starts a background poll loop that calls listener.ConfigUpdate
// whenever the stored version advances.
func (s *Source[T]) Watch(listener property.Listener[T]) error {
	rules, version, err := s.read(context.Background())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lastVer = version
	s.mu.Unlock()
	listener.ConfigUpdate(rules)

	s.done = make(chan struct{})
	go s.loop(listener)
	return nil
}

func (s *Source[T]) loop(listener property.Listener[T]) {
	defer close(s.done)
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			rules, version, err := s.read(context.Background())
			if err != nil {
				flowguardlog.RuleDropped("property/sqlitesource", err.Error(), stringerFunc(s.kind))
				continue
			}
			s.mu.Lock()
			changed := version != s.lastVer
			s.lastVer = version
			s.mu.Unlock()
			if changed {
				listener.ConfigUpdate(rules)
			}
		}
	}
}

// Close stops the poll loop and closes the underlying database handle.
func (s *Source[T]) Close() error {
	close(s.stop)
	if s.done != nil {
		<-s.done
	}
	return s.db.Close()
}

type stringerFunc string

func (s stringerFunc) String() string { return string(s) }
