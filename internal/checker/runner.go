// Package checker drives the external PRISM model checker: it writes a
// compiled MDP and PCTL property to temp files, invokes the `prism` binary,
// and parses its verdict (spec.md §6 "Driver (external)"; SPEC_FULL.md §4.7).
package checker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pfnet-research/pml/internal/pmlerr"
)

// Verdict is the outcome PRISM reported for one property.
type Verdict struct {
	// Satisfied is true when PRISM's stdout reported "Result: true".
	Satisfied bool
	// Raw is PRISM's full stdout, kept for CLI diagnostics and -json output.
	Raw string
}

// Checker checks a compiled MDP against a PCTL property. It is an interface
// so the CLI and tests can substitute a go.uber.org/mock-generated double
// for the real prism binary.
type Checker interface {
	Check(ctx context.Context, mdpText, pctlText string) (Verdict, error)
}

// Runner invokes a real `prism` binary. MinVersion is a field, not a
// package-level constant, so tests can lower it (spec §4.7).
type Runner struct {
	PrismPath  string
	MinVersion string
	Timeout    time.Duration
	TempDir    string
}

// NewRunner constructs a Runner with spec.md §4.8's defaults: the "prism"
// binary on $PATH, a minimum version of 4.4.0, and a 30s timeout.
func NewRunner() *Runner {
	return &Runner{PrismPath: "prism", MinVersion: ">=4.4.0", Timeout: 30 * time.Second}
}

// Check writes mdpText and pctlText to uniquely named temp files (uuid
// names, so concurrent or -watch-mode runs never collide on a stale file
// from a previous run), verifies the installed prism binary satisfies
// MinVersion, and runs it with a context deadline.
func (r *Runner) Check(ctx context.Context, mdpText, pctlText string) (Verdict, error) {
	if err := r.checkVersion(ctx); err != nil {
		return Verdict{}, err
	}

	dir := r.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	id := uuid.NewString()
	mdpPath := filepath.Join(dir, fmt.Sprintf("pml-%s.pm", id))
	pctlPath := filepath.Join(dir, fmt.Sprintf("pml-%s.pctl", id))

	if err := os.WriteFile(mdpPath, []byte(mdpText), 0o600); err != nil {
		return Verdict{}, pmlerr.Newf(pmlerr.ExternalChecker, "writing MDP file: %v", err)
	}
	defer os.Remove(mdpPath)
	if err := os.WriteFile(pctlPath, []byte(pctlText), 0o600); err != nil {
		return Verdict{}, pmlerr.Newf(pmlerr.ExternalChecker, "writing PCTL file: %v", err)
	}
	defer os.Remove(pctlPath)

	runCtx := ctx
	var cancel context.CancelFunc
	if r.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var stdout strings.Builder
	g, gctx := errgroup.WithContext(runCtx)
	cmd := exec.CommandContext(gctx, r.PrismPath, mdpPath, pctlPath)
	cmd.Stdout = &stdout

	runDone := make(chan struct{})
	g.Go(func() error {
		defer close(runDone)
		return cmd.Run()
	})
	// A second goroutine races cmd.Run: it returns as soon as cmd.Run has
	// finished, and if gctx ends first because runCtx's own deadline expired
	// rather than because cmd.Run already reported an error, it turns the
	// generic "signal: killed" exec.CommandContext leaves behind into a
	// diagnosis naming the configured timeout.
	g.Go(func() error {
		select {
		case <-runDone:
			return nil
		case <-gctx.Done():
		}
		if runCtx.Err() == context.DeadlineExceeded {
			return pmlerr.Newf(pmlerr.ExternalChecker, "prism did not finish within %s", r.Timeout)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if pe, ok := err.(*pmlerr.Error); ok {
			return Verdict{}, pe
		}
		return Verdict{}, pmlerr.Newf(pmlerr.ExternalChecker, "running prism: %v", err)
	}

	return parseVerdict(stdout.String()), nil
}

// checkVersion runs "prism -version" and rejects an installation that does
// not satisfy r.MinVersion: PRISM's PCTL property syntax and command-line
// contract have changed across major versions.
func (r *Runner) checkVersion(ctx context.Context) error {
	constraint, err := semver.NewConstraint(r.MinVersion)
	if err != nil {
		return pmlerr.Newf(pmlerr.ExternalChecker, "invalid minimum version constraint %q: %v", r.MinVersion, err)
	}

	cmd := exec.CommandContext(ctx, r.PrismPath, "-version")
	out, err := cmd.Output()
	if err != nil {
		return pmlerr.Newf(pmlerr.ExternalChecker, "querying prism version: %v", err)
	}

	raw := parsePrismVersion(string(out))
	version, err := semver.NewVersion(raw)
	if err != nil {
		return pmlerr.Newf(pmlerr.ExternalChecker, "parsing prism version %q: %v", raw, err)
	}
	if !constraint.Check(version) {
		return pmlerr.Newf(pmlerr.ExternalChecker, "prism version %s does not satisfy %s", version, r.MinVersion)
	}
	return nil
}

// parsePrismVersion extracts the first dotted-digit token from PRISM's
// "-version" banner, e.g. "PRISM version 4.7" -> "4.7".
func parsePrismVersion(banner string) string {
	for _, field := range strings.Fields(banner) {
		if len(field) > 0 && (field[0] >= '0' && field[0] <= '9') {
			return field
		}
	}
	return banner
}

// parseVerdict scans PRISM's stdout for a line of the form
// "Result: true" / "Result: false" (PRISM's standard verification summary).
func parseVerdict(stdout string) Verdict {
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Result:") {
			rest := strings.TrimSpace(strings.TrimPrefix(line, "Result:"))
			return Verdict{Satisfied: strings.HasPrefix(rest, "true"), Raw: stdout}
		}
	}
	return Verdict{Satisfied: false, Raw: stdout}
}
