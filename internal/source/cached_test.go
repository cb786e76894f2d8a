package source

import (
	"errors"
	"testing"

	"github.com/theirongolddev/ctxline/internal/model"
)

type memCache struct {
	entries map[string]model.UsageSnapshot
	stamps  map[string][2]int64
	failGet bool
	stores  int
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string]model.UsageSnapshot),
		stamps:  make(map[string][2]int64),
	}
}

func (m *memCache) Lookup(path, key string, mtimeNs, size int64) (model.UsageSnapshot, bool, error) {
	if m.failGet {
		return model.UsageSnapshot{}, false, errors.New("boom")
	}
	k := path + "|" + key
	st, ok := m.stamps[k]
	if !ok || st != [2]int64{mtimeNs, size} {
		return model.UsageSnapshot{}, false, nil
	}
	return m.entries[k], true, nil
}

func (m *memCache) Store(path, key string, mtimeNs, size int64, snap model.UsageSnapshot) error {
	k := path + "|" + key
	m.entries[k] = snap
	m.stamps[k] = [2]int64{mtimeNs, size}
	m.stores++
	return nil
}

type countingSource struct {
	inner UsageSource
	calls int
}

func (c *countingSource) Usage(path string) model.UsageSnapshot {
	c.calls++
	return c.inner.Usage(path)
}

func TestCachedSource_ReusesUnchangedFile(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","usage":{"input_tokens":500}}}`,
	)
	inner := &countingSource{inner: JSONLSource{Schema: ClaudeSchema{}}}
	cache := newMemCache()
	src := CachedSource{Inner: inner, Cache: cache, Key: "jsonl/claude"}

	first := src.Usage(path)
	second := src.Usage(path)

	if first.TokensUsed != 500 || second.TokensUsed != 500 {
		t.Fatalf("TokensUsed = %d/%d, want 500/500", first.TokensUsed, second.TokensUsed)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1 (second read served from cache)", inner.calls)
	}
	if cache.stores != 1 {
		t.Errorf("stores = %d, want 1", cache.stores)
	}
}

func TestCachedSource_LookupErrorFallsThrough(t *testing.T) {
	path := writeTranscript(t, "t.jsonl",
		`{"type":"assistant","message":{"id":"m1","usage":{"output_tokens":9}}}`,
	)
	cache := newMemCache()
	cache.failGet = true
	src := CachedSource{Inner: JSONLSource{Schema: ClaudeSchema{}}, Cache: cache, Key: "k"}

	if got := src.Usage(path); got.TokensUsed != 9 {
		t.Errorf("TokensUsed = %d, want 9", got.TokensUsed)
	}
}

func TestCachedSource_MissingFileSkipsCache(t *testing.T) {
	cache := newMemCache()
	src := CachedSource{Inner: JSONLSource{Schema: ClaudeSchema{}}, Cache: cache, Key: "k"}

	if got := src.Usage(t.TempDir() + "/missing.jsonl"); got.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", got.TokensUsed)
	}
	if cache.stores != 0 {
		t.Errorf("stores = %d, want 0 for missing file", cache.stores)
	}
}
