package config

import (
	"fmt"
	"time"

	"github.com/theirongolddev/ctxline/internal/git"
	"github.com/theirongolddev/ctxline/internal/model"
	"github.com/theirongolddev/ctxline/internal/statusline"
)

// ProfileConfig overrides the built-in tables of one integration.
// Unset fields keep the built-in values.
type ProfileConfig struct {
	DefaultLimit   *int64      `toml:"default_limit,omitempty"`
	ShowModelEmoji *bool       `toml:"show_model_emoji,omitempty"`
	GitStatus      []string    `toml:"git_status"` // nil keeps the built-in kinds
	ContextLimits  []LimitRule `toml:"context_limits,omitempty"`
	ModelEmojis    []EmojiRule `toml:"model_emojis,omitempty"`
}

// LimitRule maps a model identifier substring to a context window size.
type LimitRule struct {
	Match string `toml:"match"`
	Limit int64  `toml:"limit"`
}

// EmojiRule maps a model name substring to an emoji.
type EmojiRule struct {
	Match string `toml:"match"`
	Emoji string `toml:"emoji"`
}

func (p ProfileConfig) validate(name string) error {
	if p.DefaultLimit != nil && *p.DefaultLimit <= 0 {
		return fmt.Errorf("%s.default_limit must be positive", name)
	}
	for _, r := range p.ContextLimits {
		if r.Match == "" {
			return fmt.Errorf("%s.context_limits: empty match", name)
		}
		if r.Limit <= 0 {
			return fmt.Errorf("%s.context_limits %q: limit must be positive", name, r.Match)
		}
	}
	for _, r := range p.ModelEmojis {
		if r.Match == "" {
			return fmt.Errorf("%s.model_emojis: empty match", name)
		}
	}
	for _, s := range p.GitStatus {
		if _, err := model.ParseStatusKind(s); err != nil {
			return fmt.Errorf("%s.git_status: %w", name, err)
		}
	}
	return nil
}

// Apply layers the overrides onto a built-in profile. Configured rules are
// consulted before the built-in ones.
func (p ProfileConfig) Apply(base statusline.Profile) (statusline.Profile, error) {
	out := base

	if p.DefaultLimit != nil {
		out.DefaultLimit = *p.DefaultLimit
	}
	if p.ShowModelEmoji != nil {
		out.ShowModelEmoji = *p.ShowModelEmoji
	}

	if len(p.ContextLimits) > 0 {
		rules := make([]statusline.Rule[int64], 0, len(p.ContextLimits)+len(base.ContextLimits))
		for _, r := range p.ContextLimits {
			rules = append(rules, statusline.Rule[int64]{Match: r.Match, Value: r.Limit})
		}
		out.ContextLimits = append(rules, base.ContextLimits...)
	}

	if len(p.ModelEmojis) > 0 {
		rules := make([]statusline.Rule[string], 0, len(p.ModelEmojis)+len(base.ModelEmojis))
		for _, r := range p.ModelEmojis {
			rules = append(rules, statusline.Rule[string]{Match: r.Match, Value: r.Emoji})
		}
		out.ModelEmojis = append(rules, base.ModelEmojis...)
	}

	if p.GitStatus != nil {
		kinds := make([]model.StatusKind, 0, len(p.GitStatus))
		for _, s := range p.GitStatus {
			k, err := model.ParseStatusKind(s)
			if err != nil {
				return base, err
			}
			kinds = append(kinds, k)
		}
		out.GitPolicy = kinds
	}

	return out, nil
}

// Timeouts converts the configured millisecond values, keeping the stock
// timeout for any value left at zero.
func (g GitConfig) Timeouts() git.Timeouts {
	t := git.DefaultTimeouts()
	if g.RevParseTimeoutMs > 0 {
		t.RevParse = time.Duration(g.RevParseTimeoutMs) * time.Millisecond
	}
	if g.BranchTimeoutMs > 0 {
		t.Branch = time.Duration(g.BranchTimeoutMs) * time.Millisecond
	}
	if g.StatusTimeoutMs > 0 {
		t.Status = time.Duration(g.StatusTimeoutMs) * time.Millisecond
	}
	return t
}
