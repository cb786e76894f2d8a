package model

import (
	"fmt"
	"strings"
)

// StatusKind is one category of working-tree change.
type StatusKind int

// Status kinds in display order.
const (
	StatusAdded StatusKind = iota
	StatusModified
	StatusDeleted
	StatusRenamed
	StatusUnmerged
	StatusUntracked
)

// AllStatusKinds lists every kind in display order.
var AllStatusKinds = []StatusKind{
	StatusAdded,
	StatusModified,
	StatusDeleted,
	StatusRenamed,
	StatusUnmerged,
	StatusUntracked,
}

var statusNames = [...]string{"added", "modified", "deleted", "renamed", "unmerged", "untracked"}

var statusSymbols = [...]string{"✚", "✹", "✖", "➜", "═", "✭"}

// String returns the config name of the kind, e.g. "untracked".
func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(statusNames) {
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
	return statusNames[k]
}

// Symbol returns the single-glyph marker for the kind.
func (k StatusKind) Symbol() string {
	if k < 0 || int(k) >= len(statusSymbols) {
		return ""
	}
	return statusSymbols[k]
}

// ParseStatusKind maps a config name back to its kind.
func ParseStatusKind(name string) (StatusKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range statusNames {
		if s == n {
			return StatusKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown git status kind %q", name)
}

// Branch icons.
const (
	PrimaryBranchIcon = "🏠"
	FeatureBranchIcon = "🌿"
)

// GitStatus describes the working tree of a directory under version control.
// A nil *GitStatus means the directory is not in a repository.
type GitStatus struct {
	Branch    string
	IsPrimary bool
	Symbols   []StatusKind // at most one of each kind, in display order
}

// IsPrimaryBranch reports whether name is main or master.
func IsPrimaryBranch(name string) bool {
	return name == "main" || name == "master"
}

// SymbolString concatenates the status symbols with no separator.
func (g *GitStatus) SymbolString() string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	for _, k := range g.Symbols {
		b.WriteString(k.Symbol())
	}
	return b.String()
}

// Display renders the branch segment, e.g. "🏠 main ✚✭".
func (g *GitStatus) Display() string {
	if g == nil {
		return ""
	}
	icon := FeatureBranchIcon
	if g.IsPrimary {
		icon = PrimaryBranchIcon
	}
	s := icon + " " + g.Branch
	if sym := g.SymbolString(); sym != "" {
		s += " " + sym
	}
	return s
}
