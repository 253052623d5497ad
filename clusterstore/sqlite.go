package clusterstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a persistent Store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dsn and
// initialises the schema. Use ":memory:" for an in-memory database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("clusterstore: open sqlite: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS flowguard_counters (
			key            TEXT PRIMARY KEY,
			count          INTEGER NOT NULL DEFAULT 0,
			bucket_key     TEXT NOT NULL DEFAULT '',
			window_seconds INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("clusterstore: create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) IncrementBy(ctx context.Context, key string, w Window, n int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var count int64
	var bucketKey string

	err = tx.QueryRowContext(ctx,
		`SELECT count, bucket_key FROM flowguard_counters WHERE key = ?`, key,
	).Scan(&count, &bucketKey)

	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO flowguard_counters (key, count, bucket_key, window_seconds) VALUES (?, ?, ?, ?)`,
			key, n, w.BucketKey, int64(w.Duration.Seconds()),
		)
		if err != nil {
			return 0, err
		}
		return n, tx.Commit()
	}
	if err != nil {
		return 0, err
	}

	if bucketKey != w.BucketKey {
		count = 0
	}

	count += n
	_, err = tx.ExecContext(ctx,
		`UPDATE flowguard_counters SET count = ?, bucket_key = ?, window_seconds = ? WHERE key = ?`,
		count, w.BucketKey, int64(w.Duration.Seconds()), key,
	)
	if err != nil {
		return 0, err
	}

	return count, tx.Commit()
}

func (s *SQLiteStore) Increment(ctx context.Context, key string, w Window) (int64, error) {
	return s.IncrementBy(ctx, key, w, 1)
}

func (s *SQLiteStore) Get(ctx context.Context, key string, w Window) (int64, error) {
	var count int64
	var bucketKey string

	err := s.db.QueryRowContext(ctx,
		`SELECT count, bucket_key FROM flowguard_counters WHERE key = ?`, key,
	).Scan(&count, &bucketKey)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if bucketKey != w.BucketKey {
		return 0, nil
	}
	return count, nil
}

func (s *SQLiteStore) Reset(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM flowguard_counters WHERE key = ?`, key)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
