// Package statusline turns session facts into a one-line summary.
package statusline

import "strings"

// Rule maps a model identifier substring to a value.
type Rule[T any] struct {
	Match string
	Value T
}

// FirstMatch returns the value of the first rule whose Match is a
// case-insensitive substring of subject, or fallback when none match.
// Rules are evaluated in order, so earlier entries take precedence.
func FirstMatch[T any](rules []Rule[T], subject string, fallback T) T {
	lower := strings.ToLower(subject)
	for _, r := range rules {
		if r.Match == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(r.Match)) {
			return r.Value
		}
	}
	return fallback
}

// Tier is one color band of context usage. UpTo is an inclusive upper bound
// in percent.
type Tier struct {
	UpTo  float64
	Emoji string
}

// Tiers are evaluated in ascending order; the first tier whose bound is not
// exceeded wins, and Top covers everything above the last bound.
type Tiers struct {
	Bands []Tier
	Top   string
}

// DefaultTiers returns the healthy/caution/warning/critical bands.
func DefaultTiers() Tiers {
	return Tiers{
		Bands: []Tier{
			{UpTo: 50, Emoji: "🟢"},
			{UpTo: 75, Emoji: "🟡"},
			{UpTo: 90, Emoji: "🟠"},
		},
		Top: "🔴",
	}
}

// Color returns the emoji for a usage percentage.
func (t Tiers) Color(pct float64) string {
	for _, b := range t.Bands {
		if pct <= b.UpTo {
			return b.Emoji
		}
	}
	return t.Top
}
