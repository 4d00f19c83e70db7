// Package auditlog buffers structured audit events during a run and
// appends them to a newline-delimited log file in one flush at run end.
//
// Logging is strictly best-effort: an unwritable log never blocks or fails
// a validation run.
package auditlog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/systmms/keyaudit/pkg/provider"
)

// MaxSize is the rotation threshold. Once the log file exceeds it, the
// file is renamed to a single ".1" backup (replacing any previous backup)
// and a fresh file is started.
const MaxSize = 10 * 1024 * 1024

// Event names written by the orchestrator.
const (
	EventAuditStart   = "audit_start"
	EventAutoDetect   = "auto_detect"
	EventCacheHit     = "cache_hit"
	EventValidate     = "validate"
	EventProviderBail = "provider_bail"
	EventAuditEnd     = "audit_end"
)

// Entry is one audit record. Field order is the serialization order.
type Entry struct {
	TS        string  `json:"ts"`
	RunID     string  `json:"run_id,omitempty"`
	Event     string  `json:"event"`
	Provider  string  `json:"provider,omitempty"`
	EnvVar    string  `json:"env_var,omitempty"`
	Status    string  `json:"status,omitempty"`
	LatencyMS float64 `json:"latency_ms,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}

// Log is an append-only, size-rotated audit sink.
type Log struct {
	path    string
	runID   string
	clock   func() string
	entries []Entry
}

// New creates a buffered log targeting path. runID is stamped on every
// entry so interleaved runs sharing a file stay separable.
func New(path, runID string, clock func() string) *Log {
	return &Log{path: path, runID: runID, clock: clock}
}

// Record buffers one event. Nothing touches the filesystem until Flush.
func (l *Log) Record(e Entry) {
	if l == nil {
		return
	}
	e.TS = l.clock()
	e.RunID = l.runID
	e.LatencyMS = provider.RoundMS(e.LatencyMS)
	l.entries = append(l.entries, e)
}

// Len returns the number of buffered entries.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Flush appends all buffered entries to the log file, rotating first if
// the file is oversized. All I/O errors are swallowed; the buffer is
// cleared either way. A symlinked log path is refused outright rather
// than followed.
func (l *Log) Flush() {
	if l == nil || len(l.entries) == 0 {
		return
	}
	defer func() { l.entries = nil }()

	if fi, err := os.Lstat(l.path); err == nil {
		if fi.Mode()&os.ModeSymlink != 0 {
			return
		}
		if fi.Size() > MaxSize {
			// Single rotated backup, replaced every rotation.
			_ = os.Remove(l.path + ".1")
			_ = os.Rename(l.path, l.path+".1")
		}
	}

	if dir := filepath.Dir(l.path); dir != "." {
		_ = os.MkdirAll(dir, 0o700)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, e := range l.entries {
		_ = enc.Encode(e)
	}
}
