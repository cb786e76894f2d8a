package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/statusline"
)

func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	PathOverride = ""
	return dir
}

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	withConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Git.FastPath {
		t.Error("fast path should default on")
	}
	if cfg.Cache.Enabled {
		t.Error("cache should default off")
	}
	if Exists() {
		t.Error("Exists() = true with no file")
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	withConfigHome(t)
	writeConfig(t, `
[general]
debug = true

[git]
fast_path = false
status_timeout_ms = 750

[cache]
enabled = true

[claude]
default_limit = 500000
show_model_emoji = true
git_status = ["modified", "untracked"]

[[claude.context_limits]]
match = "opus"
limit = 300000

[[gemini.model_emojis]]
match = "gemini-2.5"
emoji = "🌟"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.General.Debug || cfg.Git.FastPath || !cfg.Cache.Enabled {
		t.Errorf("unexpected general/git/cache values: %+v", cfg)
	}
	if cfg.Git.RevParseTimeoutMs != 2000 {
		t.Errorf("RevParseTimeoutMs = %d, want default 2000", cfg.Git.RevParseTimeoutMs)
	}

	claude, err := cfg.Claude.Apply(statusline.ClaudeProfile())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if claude.DefaultLimit != 500_000 || !claude.ShowModelEmoji {
		t.Errorf("claude profile = %+v", claude)
	}
	if got := claude.ContextLimit("claude-opus-4-1"); got != 300_000 {
		t.Errorf("ContextLimit(opus) = %d, want 300000", got)
	}
	if got := claude.ContextLimit("sonnet-1m"); got != 1_000_000 {
		t.Errorf("built-in 1m rule lost: %d", got)
	}
	if len(claude.GitPolicy) != 2 || claude.GitPolicy[0] != model.StatusModified {
		t.Errorf("GitPolicy = %v", claude.GitPolicy)
	}

	gemini, err := cfg.Gemini.Apply(statusline.GeminiProfile())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := gemini.ModelEmoji("gemini-2.5-pro"); got != "🌟" {
		t.Errorf("ModelEmoji = %q", got)
	}
	if got := gemini.ModelEmoji("gemini-1.5-pro-002"); got != "🧠" {
		t.Errorf("built-in emoji rule lost: %q", got)
	}
	if gemini.DefaultLimit != 2_000_000 {
		t.Errorf("gemini DefaultLimit = %d", gemini.DefaultLimit)
	}
}

func TestLoad_InvalidReturnsDefaultsAndError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[git\nfast_path = "},
		{"bad status kind", "[gemini]\ngit_status = [\"stashed\"]\n"},
		{"zero limit", "[[claude.context_limits]]\nmatch = \"x\"\nlimit = 0\n"},
		{"negative timeout", "[git]\nbranch_timeout_ms = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withConfigHome(t)
			writeConfig(t, tt.body)

			cfg, err := Load()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !cfg.Git.FastPath || cfg.Git.BranchTimeoutMs != 2000 {
				t.Errorf("expected defaults on error, got %+v", cfg.Git)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	withConfigHome(t)

	limit := int64(123_456)
	cfg := DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Gemini.DefaultLimit = &limit

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Cache.Enabled || got.Gemini.DefaultLimit == nil || *got.Gemini.DefaultLimit != limit {
		t.Errorf("round trip lost values: %+v", got)
	}
	if got.Claude.DefaultLimit != nil {
		t.Errorf("unset override should stay nil, got %d", *got.Claude.DefaultLimit)
	}
}

func TestPathOverride(t *testing.T) {
	withConfigHome(t)
	custom := filepath.Join(t.TempDir(), "alt.toml")
	PathOverride = custom
	t.Cleanup(func() { PathOverride = "" })

	if Path() != custom {
		t.Errorf("Path() = %q, want %q", Path(), custom)
	}
}

func TestCacheAndLogPaths(t *testing.T) {
	dir := withConfigHome(t)
	cfg := DefaultConfig()

	if want := filepath.Join(dir, "cache", "ctxline", "usage.db"); cfg.CachePath() != want {
		t.Errorf("CachePath() = %q, want %q", cfg.CachePath(), want)
	}
	cfg.Cache.Path = "/tmp/custom.db"
	if cfg.CachePath() != "/tmp/custom.db" {
		t.Errorf("CachePath() ignored override: %q", cfg.CachePath())
	}
	if want := filepath.Join(dir, "cache", "ctxline", "ctxline.log"); cfg.LogPath() != want {
		t.Errorf("LogPath() = %q, want %q", cfg.LogPath(), want)
	}
}

func TestGitTimeouts(t *testing.T) {
	g := GitConfig{RevParseTimeoutMs: 100}
	got := g.Timeouts()
	if got.RevParse != 100*time.Millisecond {
		t.Errorf("RevParse = %v", got.RevParse)
	}
	if got.Status != 5*time.Second {
		t.Errorf("Status = %v, want stock 5s", got.Status)
	}
}
