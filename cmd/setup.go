package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/ctxline/internal/cli"
	"github.com/theirongolddev/ctxline/internal/config"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/statusline"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the form's bound fields.
type setupValues struct {
	fastPath     bool
	cache        bool
	debug        bool
	claudeLimit  string
	claudeEmoji  bool
	geminiLimit  string
	geminiStatus []string
}

func newSetupValues(cfg config.Config) *setupValues {
	claude := profileFor(statusline.ClaudeProfile(), cfg.Claude)
	gemini := profileFor(statusline.GeminiProfile(), cfg.Gemini)

	v := &setupValues{
		fastPath:    cfg.Git.FastPath,
		cache:       cfg.Cache.Enabled,
		debug:       cfg.General.Debug,
		claudeLimit: strconv.FormatInt(claude.DefaultLimit, 10),
		claudeEmoji: claude.ShowModelEmoji,
		geminiLimit: strconv.FormatInt(gemini.DefaultLimit, 10),
	}
	for _, k := range gemini.GitPolicy {
		v.geminiStatus = append(v.geminiStatus, k.String())
	}
	return v
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	vals := newSetupValues(cfg)

	form := newSetupForm(vals)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println(cli.RenderMuted("  Setup cancelled, nothing saved."))
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println(cli.RenderMuted("  Run `ctxline config` to review."))
	return nil
}

func newSetupForm(v *setupValues) *huh.Form {
	statusOpts := make([]huh.Option[string], 0, len(model.AllStatusKinds))
	for _, k := range model.AllStatusKinds {
		statusOpts = append(statusOpts, huh.NewOption(k.Symbol()+" "+k.String(), k.String()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("ctxline setup").
				Description("Settings are written to "+config.Path()),
			huh.NewConfirm().
				Title("Read .git/HEAD directly before running git?").
				Description("Faster; falls back to git commands when HEAD is not a branch.").
				Value(&v.fastPath),
			huh.NewConfirm().
				Title("Cache transcript usage in SQLite?").
				Description("Skips rescanning unchanged transcripts. Stored under "+config.CacheDir()).
				Value(&v.cache),
			huh.NewConfirm().
				Title("Write debug logs?").
				Value(&v.debug),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Claude default context limit").
				Description("Used when no context_limits rule matches the model id.").
				Value(&v.claudeLimit).
				Validate(validateLimit),
			huh.NewConfirm().
				Title("Show the model emoji in the Claude line?").
				Value(&v.claudeEmoji),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini default context limit").
				Value(&v.geminiLimit).
				Validate(validateLimit),
			huh.NewMultiSelect[string]().
				Title("Git states shown in the Gemini line").
				Options(statusOpts...).
				Value(&v.geminiStatus),
		),
	).WithTheme(huh.ThemeBase())
}

func validateLimit(s string) error {
	if n, err := parseLimit(s); err != nil || n <= 0 {
		return errors.New("enter a positive number of tokens")
	}
	return nil
}

// apply copies the form answers into cfg. Profile values equal to the
// built-in ones are left unset so future defaults still apply.
func (v *setupValues) apply(cfg *config.Config) error {
	cfg.Git.FastPath = v.fastPath
	cfg.Cache.Enabled = v.cache
	cfg.General.Debug = v.debug

	claudeLimit, err := parseLimit(v.claudeLimit)
	if err != nil {
		return err
	}
	geminiLimit, err := parseLimit(v.geminiLimit)
	if err != nil {
		return err
	}

	cfg.Claude.DefaultLimit = overrideIfChanged(claudeLimit, statusline.ClaudeProfile().DefaultLimit)
	cfg.Gemini.DefaultLimit = overrideIfChanged(geminiLimit, statusline.GeminiProfile().DefaultLimit)

	emoji := v.claudeEmoji
	cfg.Claude.ShowModelEmoji = &emoji
	if !emoji {
		cfg.Claude.ShowModelEmoji = nil
	}

	cfg.Gemini.GitStatus = append([]string{}, v.geminiStatus...)
	return cfg.Validate()
}

func parseLimit(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid context limit %q: %w", s, err)
	}
	return n, nil
}

func overrideIfChanged(v, builtin int64) *int64 {
	if v == builtin {
		return nil
	}
	return &v
}
