package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/ctxline/internal/cli"
	"github.com/theirongolddev/ctxline/internal/config"
	"github.com/theirongolddev/ctxline/internal/statusline"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	// Load again so a broken file is reported instead of silently defaulted.
	if _, err := config.Load(); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), cli.RenderWarning("  "+err.Error()))
		fmt.Fprintln(cmd.OutOrStdout())
	}
	printConfig(cmd.OutOrStdout(), settings)
	return nil
}

func printConfig(w io.Writer, cfg config.Config) {
	fmt.Fprintf(w, "  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Fprintln(w, "  Status: loaded")
	} else {
		fmt.Fprintln(w, "  Status: using defaults (no config file)")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [General]")
	fmt.Fprint(w, cli.RenderKeyValues([][2]string{
		{"Debug logging", cli.FormatBool(cfg.General.Debug)},
		{"Log file", cfg.LogPath()},
	}))
	fmt.Fprintln(w)

	t := cfg.Git.Timeouts()
	fmt.Fprintln(w, "  [Git]")
	fmt.Fprint(w, cli.RenderKeyValues([][2]string{
		{"Fast path", cli.FormatBool(cfg.Git.FastPath)},
		{"rev-parse timeout", t.RevParse.String()},
		{"branch timeout", t.Branch.String()},
		{"status timeout", t.Status.String()},
	}))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  [Cache]")
	fmt.Fprint(w, cli.RenderKeyValues([][2]string{
		{"Enabled", cli.FormatBool(cfg.Cache.Enabled)},
		{"Path", cfg.CachePath()},
	}))
	fmt.Fprintln(w)

	printProfile(w, profileFor(statusline.ClaudeProfile(), cfg.Claude))
	printProfile(w, profileFor(statusline.GeminiProfile(), cfg.Gemini))

	fmt.Fprintln(w, cli.RenderMuted("  Run `ctxline setup` to reconfigure."))
}

func printProfile(w io.Writer, p statusline.Profile) {
	rows := make([][]string, 0, len(p.ContextLimits)+len(p.ModelEmojis)+4)
	for _, r := range p.ContextLimits {
		rows = append(rows, []string{"context limit", r.Match, cli.FormatNumber(r.Value)})
	}
	rows = append(rows, []string{"context limit", "(default)", cli.FormatNumber(p.DefaultLimit)})
	rows = append(rows, []string{"---"})
	for _, r := range p.ModelEmojis {
		rows = append(rows, []string{"model emoji", r.Match, r.Value})
	}
	rows = append(rows, []string{"model emoji", "(default)", statusline.DefaultModelEmoji})
	rows = append(rows, []string{"---"})

	kinds := make([]string, 0, len(p.GitPolicy))
	for _, k := range p.GitPolicy {
		kinds = append(kinds, k.String()+" "+k.Symbol())
	}
	rows = append(rows, []string{"git status", "", strings.Join(kinds, ", ")})
	if p.Layout == statusline.LayoutClaude {
		rows = append(rows, []string{"show emoji", "", strconv.FormatBool(p.ShowModelEmoji)})
	}

	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "[" + p.Name + "]",
		Headers: []string{"Setting", "Match", "Value"},
		Rows:    rows,
	}))
	fmt.Fprintln(w)
}
