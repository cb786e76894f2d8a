package git

import (
	"strings"

	"github.com/theirongolddev/ctxline/internal/model"
)

// Policy selects which status kinds an integration reports.
type Policy struct {
	Kinds []model.StatusKind
}

// FullPolicy reports every status kind.
func FullPolicy() Policy {
	return Policy{Kinds: model.AllStatusKinds}
}

// Filter keeps the kinds the policy reports, preserving display order.
func (p Policy) Filter(kinds []model.StatusKind) []model.StatusKind {
	var out []model.StatusKind
	for _, k := range kinds {
		for _, allowed := range p.Kinds {
			if k == allowed {
				out = append(out, k)
				break
			}
		}
	}
	return out
}

// ParseStatus classifies `git status --porcelain` output into the set of
// status kinds present, returned once each in display order.
//
// Per line the index character is checked first (A/M/D/R), then the
// worktree character (M/D), then "??" for untracked, then U on either side
// for unmerged.
func ParseStatus(porcelain string) []model.StatusKind {
	var present [len(statusOrder)]bool

	for _, line := range strings.Split(porcelain, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 2 {
			continue
		}
		index, work := line[0], line[1]

		switch index {
		case 'A':
			present[model.StatusAdded] = true
		case 'M':
			present[model.StatusModified] = true
		case 'D':
			present[model.StatusDeleted] = true
		case 'R':
			present[model.StatusRenamed] = true
		}

		switch work {
		case 'M':
			present[model.StatusModified] = true
		case 'D':
			present[model.StatusDeleted] = true
		}

		if index == '?' && work == '?' {
			present[model.StatusUntracked] = true
		}
		if index == 'U' || work == 'U' {
			present[model.StatusUnmerged] = true
		}
	}

	var kinds []model.StatusKind
	for _, k := range statusOrder {
		if present[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

var statusOrder = [...]model.StatusKind{
	model.StatusAdded,
	model.StatusModified,
	model.StatusDeleted,
	model.StatusRenamed,
	model.StatusUnmerged,
	model.StatusUntracked,
}
