// Package metrics exposes Prometheus instrumentation for audit runs.
//
// Registration is lazy and guarded so that embedding keyaudit as a
// library never double-registers collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	auditRunsTotal     prometheus.Counter
	keysValidatedTotal *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	cacheLookupsTotal  *prometheus.CounterVec
	providerBailsTotal *prometheus.CounterVec
	autoDetectedTotal  prometheus.Counter

	registerOnce sync.Once
)

// Init registers all collectors with the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		auditRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "keyaudit_runs_total",
			Help: "Total number of audit runs started",
		})

		keysValidatedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyaudit_keys_validated_total",
				Help: "Total credentials validated, by provider and outcome status",
			},
			[]string{"provider", "status"},
		)

		validationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keyaudit_validation_duration_seconds",
				Help:    "Wall-clock duration of single credential validations",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		)

		cacheLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyaudit_cache_lookups_total",
				Help: "Validation cache lookups, by result (hit or miss)",
			},
			[]string{"result"},
		)

		providerBailsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyaudit_provider_bails_total",
				Help: "Providers skipped after consecutive failures",
			},
			[]string{"provider"},
		)

		autoDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "keyaudit_auto_detected_total",
			Help: "Credentials classified by value pattern instead of variable name",
		})
	})
}

// RecordRun counts one audit run.
func RecordRun() {
	if auditRunsTotal != nil {
		auditRunsTotal.Inc()
	}
}

// RecordValidation counts one completed validation and its latency.
func RecordValidation(providerName, status string, latencyMS float64) {
	if keysValidatedTotal == nil {
		return
	}
	keysValidatedTotal.WithLabelValues(providerName, status).Inc()
	validationDuration.WithLabelValues(providerName).Observe(latencyMS / 1000)
}

// RecordCacheLookup counts one cache probe.
func RecordCacheLookup(hit bool) {
	if cacheLookupsTotal == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordBail counts one provider bail.
func RecordBail(providerName string) {
	if providerBailsTotal != nil {
		providerBailsTotal.WithLabelValues(providerName).Inc()
	}
}

// RecordAutoDetect counts one pattern-classified credential.
func RecordAutoDetect() {
	if autoDetectedTotal != nil {
		autoDetectedTotal.Inc()
	}
}
