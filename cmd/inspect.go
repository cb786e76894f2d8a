package cmd

import (
	"fmt"
	"io"

	"github.com/theirongolddev/ctxline/internal/cli"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/source"
	"github.com/theirongolddev/ctxline/internal/statusline"

	"github.com/spf13/cobra"
)

var (
	flagInspectFormat string
	flagInspectSchema string
	flagInspectModel  string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <transcript>",
	Short: "Show the usage ctxline extracts from a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectFormat, "format", "", "Transcript encoding: jsonl or array (default by schema)")
	inspectCmd.Flags().StringVar(&flagInspectSchema, "schema", "claude", "Record schema: claude or gemini")
	inspectCmd.Flags().StringVarP(&flagInspectModel, "model", "m", "", "Model id used for the context limit lookup")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	return inspectTranscript(cmd.OutOrStdout(), args[0], flagInspectFormat, flagInspectSchema, flagInspectModel)
}

func inspectTranscript(w io.Writer, path, format, schemaName, modelID string) error {
	schema, err := source.SchemaByName(schemaName)
	if err != nil {
		return err
	}

	profile := profileFor(statusline.ClaudeProfile(), settings.Claude)
	if schema.Name() == "gemini" {
		profile = profileFor(statusline.GeminiProfile(), settings.Gemini)
		if format == "" {
			format = string(source.FormatArray)
		}
	}
	if format == "" {
		format = string(source.FormatJSONL)
	}

	var res source.ScanResult
	switch source.Format(format) {
	case source.FormatJSONL:
		res = source.JSONLSource{Schema: schema}.Scan(path)
	case source.FormatArray:
		res = source.ArraySource{Schema: schema, FallbackJSONL: true}.Scan(path)
	default:
		return fmt.Errorf("unknown format %q (want jsonl or array)", format)
	}
	if res.Err != nil {
		return fmt.Errorf("reading %s: %w", path, res.Err)
	}

	facts := statusline.Facts{
		Input: model.SessionInput{ModelID: modelID},
		Usage: res.Snapshot,
	}
	cu := profile.Context(facts)

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("Transcript usage"))
	fmt.Fprintln(w)
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Transcript", path},
			{"Schema", schema.Name()},
			{"Format", format},
			{"Records scanned", cli.FormatNumber(int64(res.Scanned))},
			{"Parse errors", cli.FormatNumber(int64(res.ParseErrors))},
			{"Line fallback", cli.FormatBool(res.Fallback)},
			{"---"},
			{"Usage found", cli.FormatBool(res.Found)},
			{"Tokens used", cli.FormatNumber(res.Snapshot.TokensUsed)},
			{"Reported model", orDash(res.Snapshot.ReportedModel)},
			{"Model", profile.ModelName(facts)},
			{"Context limit", cli.FormatNumber(cu.Limit)},
			{"Usage", cli.FormatPercent(cu.Percentage) + " " + profile.Tiers.Color(cu.Percentage)},
		},
	}))
	if !res.Found {
		fmt.Fprintln(w)
		fmt.Fprintln(w, cli.RenderWarning("  No usage record found; the status line would show 0%."))
	}
	fmt.Fprintln(w)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
