package git

import (
	"context"
	"os/exec"
)

// Runner executes a git subcommand in dir and returns its stdout.
// A non-zero exit status is reported as an error.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary found on PATH.
type ExecRunner struct {
	Binary string // defaults to "git"
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...) //nolint:gosec // fixed git subcommands
	cmd.Dir = dir
	out, err := cmd.Output()
	return string(out), err
}
