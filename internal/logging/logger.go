// Package logging provides the stderr logger and the secret-redaction
// helpers used everywhere a key could otherwise leak into output.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Logger writes leveled, optionally colored messages to stderr.
type Logger struct {
	debug   bool
	noColor bool
}

// New creates a logger. Color is dropped automatically when stderr is not
// a terminal, regardless of noColor.
func New(debug, noColor bool) *Logger {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		noColor = true
	}
	return &Logger{debug: debug, noColor: noColor}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit("\033[32m✓\033[0m", "✓", format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit("\033[33m⚠\033[0m", "⚠", format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit("\033[31m✗\033[0m", "✗", format, args...)
}

// Debug logs a debug message if debug mode is enabled.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.emit("\033[36m[DEBUG]\033[0m", "[DEBUG]", format, args...)
}

func (l *Logger) emit(coloredPrefix, plainPrefix, format string, args ...interface{}) {
	prefix := coloredPrefix
	if l.noColor {
		prefix = plainPrefix
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

// Secret wraps a sensitive value so any fmt verb renders it redacted.
type Secret string

// String implements fmt.Stringer, always returning a redacted value.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string { return "[REDACTED]" }

// Redact replaces occurrences of the given secrets in s with [REDACTED].
// Trivial values are skipped to avoid shredding ordinary text.
func Redact(s string, secrets []string) string {
	for _, secret := range secrets {
		if len(secret) > 3 {
			s = strings.ReplaceAll(s, secret, "[REDACTED]")
		}
	}
	return s
}
