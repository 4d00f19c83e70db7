// Package output renders audit reports as a terminal table or canonical
// JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/mattn/go-isatty"

	"github.com/systmms/keyaudit/internal/audit"
	kaerrors "github.com/systmms/keyaudit/internal/errors"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/pkg/provider"
)

var statusColors = map[provider.Status]string{
	provider.StatusValid:             "\033[32m", // green
	provider.StatusInvalidFormat:     "\033[33m", // yellow
	provider.StatusAuthFailed:        "\033[31m", // red
	provider.StatusSuspendedAccount:  "\033[31m",
	provider.StatusQuotaExhausted:    "\033[33m",
	provider.StatusInsufficientScope: "\033[35m", // magenta
	provider.StatusNetworkError:      "\033[31m",
}

const colorReset = "\033[0m"

// Renderer writes human-readable audit output.
type Renderer struct {
	w       io.Writer
	noColor bool
	level   logging.RedactionLevel
}

// NewRenderer creates a renderer for w. Color is disabled automatically
// when w is not a terminal.
func NewRenderer(w io.Writer, noColor bool, level logging.RedactionLevel) *Renderer {
	if f, ok := w.(*os.File); ok {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			noColor = true
		}
	}
	return &Renderer{w: w, noColor: noColor, level: level}
}

// RenderTable prints the results table followed by the run summary.
func (r *Renderer) RenderTable(report audit.Report) {
	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "PROVIDER\tENV VAR\tFINGERPRINT\tSTATUS\tDETAIL\n")
	_, _ = fmt.Fprintf(tw, "--------\t-------\t-----------\t------\t------\n")
	for _, res := range report.Results {
		detail := res.AccountInfo
		if detail == "" {
			detail = res.ErrorDetail
		}
		envVar := res.EnvVar
		if res.AutoDetected {
			envVar += " (auto)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			res.Provider, envVar, formatFingerprint(res.KeyFingerprint, r.level), r.colorize(res.Status), detail)
	}
	_ = tw.Flush()

	s := report.Summary
	_, _ = fmt.Fprintf(r.w, "\n%d keys: %d valid, %d failed, %d errors\n", s.TotalKeys, s.Valid, s.Failed, s.Errors)
	_, _ = fmt.Fprintf(r.w, "providers: %d checked, %d skipped | cache: %d hits, %d misses | avg latency: %.2fms\n",
		s.ProvidersChecked, s.ProvidersSkipped, s.CacheHits, s.CacheMisses, s.AvgLatencyMS)
	if s.AutoDetected > 0 {
		_, _ = fmt.Fprintf(r.w, "%d credentials classified by key pattern\n", s.AutoDetected)
	}
}

func (r *Renderer) colorize(s provider.Status) string {
	if r.noColor {
		return string(s)
	}
	color, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return color + string(s) + colorReset
}

// formatFingerprint renders a fingerprint at the requested redaction
// level. The hash level needs the raw key, which never reaches this
// package, so it collapses to full redaction here.
func formatFingerprint(fp provider.Fingerprint, level logging.RedactionLevel) string {
	switch level {
	case logging.RedactFull, logging.RedactHash:
		return fmt.Sprintf("[REDACTED] (%d)", fp.Length)
	default:
		return fmt.Sprintf("%s...%s (%d)", fp.Prefix, fp.Suffix, fp.Length)
	}
}

// WriteJSON writes the full report to path with canonical field ordering.
// A world-readable target (or a new file in a world-readable directory) is
// refused unless force is set.
func WriteJSON(report audit.Report, path string, force bool) error {
	if !outputPermissionsOK(path, force) {
		return kaerrors.UserError{
			Message:    fmt.Sprintf("refusing to write results to world-readable path: %s", path),
			Suggestion: "tighten the permissions or pass --force-insecure-output",
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return kaerrors.UserError{
			Message: fmt.Sprintf("failed to write results to %s", path),
			Err:     err,
		}
	}
	return nil
}

// outputPermissionsOK mirrors the audit-log posture for result files:
// secrets never land in them, but fingerprints and account info are still
// not for other users' eyes.
func outputPermissionsOK(path string, force bool) bool {
	if force {
		return true
	}
	fi, err := os.Stat(path)
	if err != nil {
		dir, derr := os.Stat(filepath.Dir(path))
		if derr != nil {
			return true
		}
		return dir.Mode().Perm()&0o004 == 0
	}
	return fi.Mode().Perm()&0o004 == 0
}
