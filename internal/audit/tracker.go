package audit

import (
	"sort"

	"github.com/systmms/keyaudit/pkg/provider"
)

// BailThreshold is the number of consecutive failing statuses after which
// a provider is dropped from the run's checked accounting.
const BailThreshold = 3

// FailTracker counts consecutive provider-reported failures per provider
// within a single run. It is fed only by the orchestrating goroutine after
// the batch join, so it needs no locking.
type FailTracker struct {
	threshold int
	counts    map[string]int
	skipped   map[string]bool
}

// NewFailTracker creates a tracker. A non-positive threshold falls back to
// BailThreshold.
func NewFailTracker(threshold int) *FailTracker {
	if threshold <= 0 {
		threshold = BailThreshold
	}
	return &FailTracker{
		threshold: threshold,
		counts:    make(map[string]int),
		skipped:   make(map[string]bool),
	}
}

// Observe feeds one freshly computed status into the tracker. A failing
// status increments the provider's consecutive count; any other status
// resets it. Observe returns true exactly once per provider, at the moment
// the count crosses the threshold.
func (t *FailTracker) Observe(providerName string, s provider.Status) bool {
	if !s.Failing() {
		t.counts[providerName] = 0
		return false
	}
	t.counts[providerName]++
	if t.counts[providerName] >= t.threshold && !t.skipped[providerName] {
		t.skipped[providerName] = true
		return true
	}
	return false
}

// IsSkipped reports whether the provider has hit the threshold this run.
func (t *FailTracker) IsSkipped(providerName string) bool {
	return t.skipped[providerName]
}

// Skipped returns the bailed provider names in lexical order.
func (t *FailTracker) Skipped() []string {
	names := make([]string, 0, len(t.skipped))
	for name := range t.skipped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
