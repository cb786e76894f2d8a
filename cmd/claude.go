package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/theirongolddev/ctxline/internal/config"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/source"
	"github.com/theirongolddev/ctxline/internal/statusline"

	"github.com/spf13/cobra"
)

var claudeCmd = &cobra.Command{
	Use:   "claude",
	Short: "Print the Claude Code status line",
	Long: "Reads the Claude Code statusLine payload on stdin and prints\n" +
		"  📁 dir | git | Model 🟢 42%",
	Args: cobra.NoArgs,
	RunE: runClaude,
}

func init() {
	rootCmd.AddCommand(claudeCmd)
}

func runClaude(cmd *cobra.Command, _ []string) error {
	return claudeStatusLine(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), settings)
}

func claudeStatusLine(ctx context.Context, stdin io.Reader, stdout io.Writer, cfg config.Config) error {
	in, err := model.DecodeClaudeInput(stdin)
	if err != nil {
		return fmt.Errorf("reading status line input: %w", err)
	}

	profile := profileFor(statusline.ClaudeProfile(), cfg.Claude)
	src, release := openUsageSource(cfg, source.FormatJSONL, source.ClaudeSchema{}, false)
	defer release()

	line := profile.Render(collectFacts(ctx, cfg, profile, in, src))
	_, err = fmt.Fprintln(stdout, line)
	return err
}
