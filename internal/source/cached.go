package source

import (
	"log/slog"
	"os"

	"github.com/theirongolddev/ctxline/internal/model"
)

// SnapshotCache persists snapshots keyed by transcript path and source key,
// valid only while the file's mtime and size are unchanged.
type SnapshotCache interface {
	Lookup(path, key string, mtimeNs, size int64) (model.UsageSnapshot, bool, error)
	Store(path, key string, mtimeNs, size int64, snap model.UsageSnapshot) error
}

// CachedSource skips rescanning transcripts that have not changed since the
// last refresh. Cache failures fall through to Inner.
type CachedSource struct {
	Inner UsageSource
	Cache SnapshotCache
	Key   string // distinguishes encodings/schemas reading the same file
}

// Usage implements UsageSource.
func (c CachedSource) Usage(path string) model.UsageSnapshot {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return c.Inner.Usage(path)
	}
	mtime := info.ModTime().UnixNano()
	size := info.Size()

	snap, ok, err := c.Cache.Lookup(path, c.Key, mtime, size)
	if err != nil {
		slog.Debug("usage cache lookup failed", "path", path, "error", err)
	} else if ok {
		slog.Debug("usage cache hit", "path", path, "tokens", snap.TokensUsed)
		return snap
	}

	snap = c.Inner.Usage(path)
	if err := c.Cache.Store(path, c.Key, mtime, size, snap); err != nil {
		slog.Debug("usage cache store failed", "path", path, "error", err)
	}
	return snap
}
