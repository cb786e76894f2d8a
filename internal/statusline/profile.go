package statusline

import "github.com/theirongolddev/ctxline/internal/model"

// Layout selects how segments are arranged for a host.
type Layout int

const (
	// LayoutClaude: "📁 dir | git | Model ctx", printed as plain text.
	LayoutClaude Layout = iota
	// LayoutGemini: "emoji Model | 📁 base | git | ctx", wrapped in a
	// systemMessage envelope.
	LayoutGemini
)

// DefaultModelEmoji is shown when no emoji rule matches.
const DefaultModelEmoji = "🤖"

// Profile holds the per-integration lookup tables and layout.
type Profile struct {
	Name          string
	Layout        Layout
	ContextLimits []Rule[int64]
	DefaultLimit  int64
	ModelEmojis   []Rule[string]
	// ShowModelEmoji prefixes the model name with its emoji in the claude
	// layout. The gemini layout always shows it.
	ShowModelEmoji bool
	// DefaultModelName is used when neither the payload nor the transcript
	// names the model.
	DefaultModelName string
	// CompactUpTo is the percentage at or below which token counts are
	// omitted in the claude layout.
	CompactUpTo float64
	Tiers       Tiers
	GitPolicy   []model.StatusKind
}

// ClaudeProfile returns the stock profile for Claude Code.
func ClaudeProfile() Profile {
	return Profile{
		Name:   "claude",
		Layout: LayoutClaude,
		ContextLimits: []Rule[int64]{
			{Match: "1m", Value: 1_000_000},
		},
		DefaultLimit: 200_000,
		ModelEmojis: []Rule[string]{
			{Match: "opus", Value: "🧠"},
			{Match: "sonnet", Value: "⚡"},
			{Match: "haiku", Value: "🚀"},
		},
		CompactUpTo: 50,
		Tiers:       DefaultTiers(),
		GitPolicy:   model.AllStatusKinds,
	}
}

// GeminiProfile returns the stock profile for Gemini CLI.
func GeminiProfile() Profile {
	return Profile{
		Name:         "gemini",
		Layout:       LayoutGemini,
		DefaultLimit: 2_000_000,
		ModelEmojis: []Rule[string]{
			{Match: "gemini-1.5-pro", Value: "🧠"},
			{Match: "gemini-1.5-flash", Value: "⚡"},
			{Match: "gemini-2.0-flash-exp", Value: "🚀"},
		},
		DefaultModelName: "Gemini",
		CompactUpTo:      50,
		Tiers:            DefaultTiers(),
		GitPolicy: []model.StatusKind{
			model.StatusAdded,
			model.StatusModified,
			model.StatusDeleted,
			model.StatusUntracked,
		},
	}
}

// ContextLimit resolves the context window for a model identifier.
func (p Profile) ContextLimit(modelID string) int64 {
	return FirstMatch(p.ContextLimits, modelID, p.DefaultLimit)
}

// ModelEmoji resolves the emoji for a model name.
func (p Profile) ModelEmoji(name string) string {
	return FirstMatch(p.ModelEmojis, name, DefaultModelEmoji)
}
