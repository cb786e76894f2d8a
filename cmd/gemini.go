package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/theirongolddev/ctxline/internal/config"
	"github.com/theirongolddev/ctxline/internal/log"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/source"
	"github.com/theirongolddev/ctxline/internal/statusline"

	"github.com/spf13/cobra"
)

const missingTranscriptMessage = "Error: transcript_path not provided to hook"

var geminiCmd = &cobra.Command{
	Use:   "gemini",
	Short: "Print the Gemini CLI status line as a hook response",
	Long: "Reads the Gemini CLI hook payload on stdin and prints a JSON object whose\n" +
		"systemMessage holds the status line. Any failure prints {}.",
	Args: cobra.NoArgs,
	RunE: runGemini,
}

func init() {
	rootCmd.AddCommand(geminiCmd)
}

func runGemini(cmd *cobra.Command, _ []string) error {
	geminiStatusLine(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), settings)
	return nil
}

// geminiStatusLine always writes exactly one JSON object so the hook never
// breaks the host.
func geminiStatusLine(ctx context.Context, stdin io.Reader, stdout io.Writer, cfg config.Config) {
	out := []byte("{}")
	defer func() { _, _ = fmt.Fprintln(stdout, string(out)) }()
	defer log.RecoverPanic("gemini", func() { out = []byte("{}") })

	resp, err := geminiResponse(ctx, stdin, cfg)
	if err != nil {
		slog.Debug("gemini status line failed", "error", err)
		return
	}
	out = resp
}

func geminiResponse(ctx context.Context, stdin io.Reader, cfg config.Config) ([]byte, error) {
	in, err := model.DecodeGeminiInput(stdin)
	if errors.Is(err, model.ErrMissingTranscript) {
		return statusline.MessageEnvelope(missingTranscriptMessage)
	}
	if err != nil {
		return nil, fmt.Errorf("reading hook input: %w", err)
	}

	profile := profileFor(statusline.GeminiProfile(), cfg.Gemini)
	src, release := openUsageSource(cfg, source.FormatArray, source.GeminiSchema{}, true)
	defer release()

	return statusline.Envelope(profile.Render(collectFacts(ctx, cfg, profile, in, src)))
}
