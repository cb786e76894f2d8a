// Package store provides a SQLite-backed cache for transcript usage snapshots.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/ctxline/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache stores the last usage snapshot seen for each transcript.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(500)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached snapshot for path under key when the recorded
// mtime and size still match the file.
func (c *Cache) Lookup(path, key string, mtimeNs, size int64) (model.UsageSnapshot, bool, error) {
	var (
		snap          model.UsageSnapshot
		cachedMtime   int64
		cachedSize    int64
		reportedModel sql.NullString
	)
	err := c.db.QueryRow(`SELECT mtime_ns, size_bytes, tokens_used, reported_model
		FROM usage_cache WHERE file_path = ? AND source_key = ?`, path, key).
		Scan(&cachedMtime, &cachedSize, &snap.TokensUsed, &reportedModel)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UsageSnapshot{}, false, nil
	}
	if err != nil {
		return model.UsageSnapshot{}, false, err
	}
	if cachedMtime != mtimeNs || cachedSize != size {
		return model.UsageSnapshot{}, false, nil
	}
	if reportedModel.Valid {
		snap.ReportedModel = reportedModel.String
	}
	return snap, true, nil
}

// Store records the snapshot for path under key, replacing any previous entry.
func (c *Cache) Store(path, key string, mtimeNs, size int64, snap model.UsageSnapshot) error {
	now := time.Now().UTC().Format(time.RFC3339)
	var reportedModel sql.NullString
	if snap.ReportedModel != "" {
		reportedModel = sql.NullString{String: snap.ReportedModel, Valid: true}
	}

	_, err := c.db.Exec(`INSERT OR REPLACE INTO usage_cache
		(file_path, source_key, mtime_ns, size_bytes, tokens_used, reported_model, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		path, key, mtimeNs, size, snap.TokensUsed, reportedModel, now,
	)
	return err
}

// Prune removes entries parsed before the cutoff.
func (c *Cache) Prune(before time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM usage_cache WHERE parsed_at < ?",
		before.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear removes every cached entry.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.Exec("DELETE FROM usage_cache")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of cached transcripts.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM usage_cache").Scan(&count)
	return count, err
}
