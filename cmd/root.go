// Package cmd implements the ctxline CLI commands.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/theirongolddev/ctxline/internal/config"
	"github.com/theirongolddev/ctxline/internal/git"
	"github.com/theirongolddev/ctxline/internal/log"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/source"
	"github.com/theirongolddev/ctxline/internal/statusline"
	"github.com/theirongolddev/ctxline/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagDebug   bool
	flagNoCache bool
)

// settings is resolved once per invocation before any subcommand runs.
var settings = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "ctxline",
	Short: "Context window status line for AI coding assistants",
	Long: "Reads a status line hook payload on stdin, finds the latest token usage in the\n" +
		"session transcript, and prints one line with directory, git and context usage.",
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		settings = loadSettings()
	},
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default $XDG_CONFIG_HOME/ctxline/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to the log file")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite usage cache")
}

// loadSettings reads the config file, applies flag overrides and installs
// the logger. A broken config file falls back to defaults.
func loadSettings() config.Config {
	config.PathOverride = flagConfig
	cfg, err := config.Load()
	if flagDebug {
		cfg.General.Debug = true
	}
	if flagNoCache {
		cfg.Cache.Enabled = false
	}

	log.Setup(cfg.LogPath(), cfg.General.Debug)
	if err != nil {
		slog.Warn("config not loaded, using defaults", "path", config.Path(), "error", err)
	}
	return cfg
}

// profileFor layers the configured overrides onto a built-in profile.
func profileFor(base statusline.Profile, pc config.ProfileConfig) statusline.Profile {
	p, err := pc.Apply(base)
	if err != nil {
		slog.Warn("profile overrides ignored", "profile", base.Name, "error", err)
		return base
	}
	return p
}

// openUsageSource builds the transcript reader, wrapped in the SQLite cache
// when it is enabled. The returned func releases the cache.
func openUsageSource(cfg config.Config, format source.Format, schema source.Schema, fallback bool) (source.UsageSource, func()) {
	src, err := source.New(format, schema, fallback)
	if err != nil {
		// Only reachable with an unknown format constant.
		slog.Error("building usage source", "error", err)
		src = source.JSONLSource{Schema: schema}
	}

	if !cfg.Cache.Enabled {
		return src, func() {}
	}

	cache, err := store.Open(cfg.CachePath())
	if err != nil {
		slog.Debug("usage cache unavailable", "path", cfg.CachePath(), "error", err)
		return src, func() {}
	}

	cached := source.CachedSource{
		Inner: src,
		Cache: cache,
		Key:   schema.Name() + "/" + string(format),
	}
	return cached, func() { _ = cache.Close() }
}

// collectFacts gathers everything the formatter needs for one refresh.
func collectFacts(ctx context.Context, cfg config.Config, profile statusline.Profile, in model.SessionInput, src source.UsageSource) statusline.Facts {
	home, _ := os.UserHomeDir()
	vcs := git.NewInspector(git.Policy{Kinds: profile.GitPolicy}, cfg.Git.Timeouts(), cfg.Git.FastPath)

	return statusline.Facts{
		Input: in,
		Usage: src.Usage(in.TranscriptPath),
		Git:   vcs.Status(ctx, in.WorkingDir),
		Home:  home,
	}
}
