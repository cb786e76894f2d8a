// Package git derives branch and working-tree status for a directory.
package git

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theirongolddev/ctxline/internal/model"
)

// VersionControlSource produces the git status of a directory, or nil when
// the directory is not inside a repository or the branch is unknown.
type VersionControlSource interface {
	Status(ctx context.Context, dir string) *model.GitStatus
}

// Timeouts bound each git query.
type Timeouts struct {
	RevParse time.Duration
	Branch   time.Duration
	Status   time.Duration
}

// DefaultTimeouts returns the stock per-query timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		RevParse: 2 * time.Second,
		Branch:   2 * time.Second,
		Status:   5 * time.Second,
	}
}

// Inspector answers VersionControlSource queries with git.
type Inspector struct {
	Runner   Runner
	Policy   Policy
	Timeouts Timeouts
	// FastPath looks for a .git entry and reads HEAD from disk before
	// falling back to git commands.
	FastPath bool
}

// NewInspector returns an Inspector using the git binary on PATH.
func NewInspector(policy Policy, timeouts Timeouts, fastPath bool) *Inspector {
	return &Inspector{
		Runner:   ExecRunner{},
		Policy:   policy,
		Timeouts: timeouts,
		FastPath: fastPath,
	}
}

// Status implements VersionControlSource. Every failure degrades to less
// information rather than an error.
func (in *Inspector) Status(ctx context.Context, dir string) *model.GitStatus {
	var (
		gitDir string
		inside bool
	)
	if in.FastPath {
		gitDir, inside = findGitDir(dir)
	}
	if !inside {
		out, err := in.run(ctx, in.Timeouts.RevParse, dir, "rev-parse", "--is-inside-work-tree")
		if err != nil || strings.TrimSpace(out) != "true" {
			slog.Debug("not a git work tree", "dir", dir, "error", err)
			return nil
		}
	}

	var branch string
	if in.FastPath && gitDir != "" {
		branch = readHeadBranch(gitDir)
	}
	if branch == "" {
		out, err := in.run(ctx, in.Timeouts.Branch, dir, "branch", "--show-current")
		if err != nil {
			slog.Debug("git branch query failed", "dir", dir, "error", err)
		} else {
			branch = strings.TrimSpace(out)
		}
	}
	if branch == "" {
		return nil
	}

	st := &model.GitStatus{
		Branch:    branch,
		IsPrimary: model.IsPrimaryBranch(branch),
	}

	out, err := in.run(ctx, in.Timeouts.Status, dir, "status", "--porcelain")
	if err != nil {
		slog.Debug("git status query failed", "dir", dir, "error", err)
		return st
	}
	st.Symbols = in.Policy.Filter(ParseStatus(out))
	return st
}

func (in *Inspector) run(ctx context.Context, timeout time.Duration, dir string, args ...string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	runner := in.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	return runner.Run(ctx, dir, args...)
}

// findGitDir walks from startDir toward the root looking for a .git entry.
// It returns the git directory when it can be resolved, and whether a marker
// was found at all. Worktrees and submodules use a ".git" file pointing at
// the real directory.
func findGitDir(startDir string) (string, bool) {
	if startDir == "" {
		return "", false
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		marker := filepath.Join(dir, ".git")
		if info, err := os.Stat(marker); err == nil {
			if info.IsDir() {
				return marker, true
			}
			return resolveGitFile(dir, marker), true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func resolveGitFile(dir, marker string) string {
	data, err := os.ReadFile(marker) //nolint:gosec // .git file inside the working tree
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	target, ok := strings.CutPrefix(line, "gitdir:")
	if !ok {
		return ""
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(dir, target)
	}
	return target
}

// readHeadBranch reads the branch name from gitDir/HEAD. A detached HEAD
// yields "".
func readHeadBranch(gitDir string) string {
	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD")) //nolint:gosec // path under the git dir
	if err != nil {
		return ""
	}
	ref := strings.TrimSpace(string(data))
	branch, ok := strings.CutPrefix(ref, "ref: refs/heads/")
	if !ok {
		return ""
	}
	return branch
}
