// Package audit orchestrates one credential validation run: it matches
// environment variables to providers, probes the result cache, dispatches
// the remainder under bounded concurrency against a shared HTTP client,
// feeds the circuit breaker, and produces a sorted result list plus a run
// summary.
package audit

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/systmms/keyaudit/internal/auditlog"
	"github.com/systmms/keyaudit/internal/cache"
	kaerrors "github.com/systmms/keyaudit/internal/errors"
	"github.com/systmms/keyaudit/internal/logging"
	"github.com/systmms/keyaudit/internal/metrics"
	"github.com/systmms/keyaudit/internal/providers"
	"github.com/systmms/keyaudit/pkg/provider"
)

const (
	// DefaultTimeout bounds each outbound validation request.
	DefaultTimeout = 30 * time.Second

	// DefaultConcurrency caps in-flight validations, mainly to stay under
	// the providers' own rate limits.
	DefaultConcurrency = 10
)

// Options configures one audit run.
type Options struct {
	// Providers restricts the run to an explicit subset of registered
	// provider names. Empty means all registered providers.
	Providers []string

	// Timeout bounds each validation request. Zero means DefaultTimeout.
	Timeout time.Duration

	// Concurrency caps concurrently in-flight validations. Zero means
	// DefaultConcurrency.
	Concurrency int

	// AuditLogPath is where structured run events are appended. Empty
	// disables audit logging.
	AuditLogPath string

	// Client overrides the shared HTTP client, used by tests. When nil a
	// client with Timeout is constructed for the run.
	Client *http.Client
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}

// Summary aggregates one completed run.
type Summary struct {
	TotalKeys        int     `json:"total_keys"`
	Valid            int     `json:"valid"`
	Failed           int     `json:"failed"`
	Errors           int     `json:"errors"`
	ProvidersChecked int     `json:"providers_checked"`
	ProvidersSkipped int     `json:"providers_skipped"`
	CacheHits        int     `json:"cache_hits"`
	CacheMisses      int     `json:"cache_misses"`
	AvgLatencyMS     float64 `json:"avg_latency_ms"`
	AutoDetected     int     `json:"auto_detected"`
}

// Report is the full output of one run: results sorted by
// (provider, env_var) plus the aggregate summary.
type Report struct {
	RunID   string               `json:"run_id"`
	Results []provider.KeyResult `json:"results"`
	Summary Summary              `json:"summary"`
}

// Auditor runs credential audits. The registry and cache are shared across
// runs; the cache in particular is what lets a second run in the same
// process skip recently validated keys.
type Auditor struct {
	registry *providers.Registry
	cache    *cache.ValidationCache
	logger   *logging.Logger
}

// New creates an auditor.
func New(registry *providers.Registry, c *cache.ValidationCache, logger *logging.Logger) *Auditor {
	metrics.Init()
	return &Auditor{registry: registry, cache: c, logger: logger}
}

// task is one (env var, secret, provider) triple queued for validation.
type task struct {
	envVar       string
	key          string
	prov         provider.Provider
	autoDetected bool
}

// Run audits every recognizable (env var, secret) pair in env.
//
// An unknown name in Options.Providers aborts immediately with a
// configuration error and zero network calls; that is the only error Run
// returns. Pairs matching no provider are skipped silently, and a run with
// nothing to do yields an empty report.
func (a *Auditor) Run(ctx context.Context, env map[string]string, opts Options) (Report, error) {
	opts = opts.withDefaults()
	report := Report{RunID: uuid.NewString(), Results: []provider.KeyResult{}}

	active, err := a.registry.Active(opts.Providers)
	if err != nil {
		return report, kaerrors.UserError{
			Message:    "cannot start audit: " + err.Error(),
			Suggestion: "run 'keyaudit providers' to list the registered providers",
			Err:        err,
		}
	}
	metrics.RecordRun()

	var alog *auditlog.Log
	if opts.AuditLogPath != "" {
		alog = auditlog.New(opts.AuditLogPath, report.RunID, utcClock)
	}
	defer alog.Flush()

	// Non-secret companion values (account SIDs, org IDs) are exported so
	// adapters can read them during Validate, and restored on every exit
	// path.
	restoreEnv := injectCompanions(env)
	defer restoreEnv()

	activeNames := make([]string, 0, len(active))
	for name := range active {
		activeNames = append(activeNames, name)
	}
	sort.Strings(activeNames)

	alog.Record(auditlog.Entry{
		Event:  auditlog.EventAuditStart,
		Detail: fmt.Sprintf("env_vars=%d providers=%d", len(env), len(active)),
	})

	envNames := make([]string, 0, len(env))
	for name := range env {
		envNames = append(envNames, name)
	}
	sort.Strings(envNames)

	var (
		results   []provider.KeyResult
		tasks     []task
		followers []task
	)
	queued := make(map[string]bool)
	for _, envVar := range envNames {
		key := env[envVar]
		p, auto := a.classify(active, activeNames, envVar, key, alog)
		if p == nil {
			continue
		}
		if res, ok := a.cache.Get(p.Name(), key); ok {
			res.EnvVar = envVar
			res.AutoDetected = auto
			metrics.RecordCacheLookup(true)
			alog.Record(auditlog.Entry{
				Event:    auditlog.EventCacheHit,
				Provider: p.Name(),
				EnvVar:   envVar,
				Status:   string(res.Status),
			})
			results = append(results, res)
			continue
		}
		metrics.RecordCacheLookup(false)
		tk := task{envVar: envVar, key: key, prov: p, autoDetected: auto}
		// An identical (provider, secret) pair already in flight is
		// validated once; later env vars resolve from the cache after
		// the join instead of hitting the provider again.
		id := p.Name() + "\x00" + key
		if queued[id] {
			followers = append(followers, tk)
			continue
		}
		queued[id] = true
		tasks = append(tasks, tk)
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
		defer client.CloseIdleConnections()
	}

	// CheckKey never fails, so the group exists purely for its concurrency
	// limit; each task owns one slot of fresh.
	fresh := make([]provider.KeyResult, len(tasks))
	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for i, tk := range tasks {
		g.Go(func() error {
			res := provider.CheckKey(ctx, tk.prov, tk.envVar, tk.key, client)
			res.AutoDetected = tk.autoDetected
			fresh[i] = res
			return nil
		})
	}
	_ = g.Wait()

	// Cache and breaker updates happen here, after the join, in dispatch
	// order. Tasks themselves never touch the tracker.
	tracker := NewFailTracker(BailThreshold)
	for i, res := range fresh {
		a.cache.Put(tasks[i].prov.Name(), tasks[i].key, res)
		metrics.RecordValidation(res.Provider, string(res.Status), res.LatencyMS)
		alog.Record(auditlog.Entry{
			Event:     auditlog.EventValidate,
			Provider:  res.Provider,
			EnvVar:    res.EnvVar,
			Status:    string(res.Status),
			LatencyMS: res.LatencyMS,
			Detail:    res.ErrorDetail,
		})
		if tracker.Observe(res.Provider, res.Status) {
			metrics.RecordBail(res.Provider)
			alog.Record(auditlog.Entry{
				Event:    auditlog.EventProviderBail,
				Provider: res.Provider,
				Detail:   fmt.Sprintf("%d consecutive failures", tracker.threshold),
			})
			a.logger.Warn("provider %s: %d consecutive failures, excluding from checked count", res.Provider, tracker.threshold)
		}
		results = append(results, res)
	}

	for _, tk := range followers {
		res, ok := a.cache.Get(tk.prov.Name(), tk.key)
		if !ok {
			// The leading task's result was evicted already; validate
			// directly like any uncached pair.
			res = provider.CheckKey(ctx, tk.prov, tk.envVar, tk.key, client)
			a.cache.Put(tk.prov.Name(), tk.key, res)
		}
		res.EnvVar = tk.envVar
		res.AutoDetected = tk.autoDetected
		metrics.RecordCacheLookup(ok)
		e := auditlog.Entry{
			Event:    auditlog.EventCacheHit,
			Provider: tk.prov.Name(),
			EnvVar:   tk.envVar,
			Status:   string(res.Status),
		}
		if !ok {
			e.Event = auditlog.EventValidate
			e.LatencyMS = res.LatencyMS
		}
		alog.Record(e)
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Provider != results[j].Provider {
			return results[i].Provider < results[j].Provider
		}
		return results[i].EnvVar < results[j].EnvVar
	})

	report.Results = results
	report.Summary = summarize(results, tracker, len(active), a.cache.Stats())

	alog.Record(auditlog.Entry{
		Event: auditlog.EventAuditEnd,
		Detail: fmt.Sprintf("%d keys, %d valid, %d providers bailed",
			report.Summary.TotalKeys, report.Summary.Valid, report.Summary.ProvidersSkipped),
	})
	return report, nil
}

// classify resolves an env var to a provider: first by name pattern among
// the active set, then by value pattern. A nil return means the pair is
// not audited.
func (a *Auditor) classify(active map[string]provider.Provider, activeNames []string, envVar, key string, alog *auditlog.Log) (provider.Provider, bool) {
	for _, name := range activeNames {
		if active[name].MatchesEnvVar(envVar) {
			return active[name], false
		}
	}
	p := a.registry.DetectByKey(key)
	if p == nil {
		return nil, false
	}
	if _, ok := active[p.Name()]; !ok {
		return nil, false
	}
	metrics.RecordAutoDetect()
	alog.Record(auditlog.Entry{
		Event:    auditlog.EventAutoDetect,
		Provider: p.Name(),
		EnvVar:   envVar,
		Detail:   "classified by key pattern",
	})
	a.logger.Debug("auto-detected %s as %s by key pattern", envVar, p.Name())
	return p, true
}

// summarize derives the run aggregate. StatusInvalidFormat counts toward
// total_keys only: it is neither a provider-reported failure nor an error.
// Cache counters are the shared cache's lifetime stats, so they accumulate
// across runs within one process.
func summarize(results []provider.KeyResult, tracker *FailTracker, activeCount int, cs cache.Stats) Summary {
	s := Summary{
		TotalKeys:   len(results),
		CacheHits:   cs.Hits,
		CacheMisses: cs.Misses,
	}
	var totalLatency float64
	for _, r := range results {
		totalLatency += r.LatencyMS
		if r.AutoDetected {
			s.AutoDetected++
		}
		switch {
		case r.Status == provider.StatusValid:
			s.Valid++
		case r.Status.Failing():
			s.Failed++
		case r.Status == provider.StatusNetworkError:
			s.Errors++
		}
	}
	s.ProvidersSkipped = len(tracker.Skipped())
	s.ProvidersChecked = activeCount - s.ProvidersSkipped
	if len(results) > 0 {
		s.AvgLatencyMS = provider.RoundMS(totalLatency / float64(len(results)))
	}
	return s
}

var secretNameMarkers = []string{"SECRET", "TOKEN", "PASSWORD", "PASSWD", "KEY", "AUTH", "CREDENTIAL"}

func looksLikeSecretName(name string) bool {
	upper := strings.ToUpper(name)
	for _, m := range secretNameMarkers {
		if strings.Contains(upper, m) {
			return true
		}
	}
	return false
}

// injectCompanions exports the non-secret entries of env to the process
// environment and returns a cleanup that restores the prior state.
func injectCompanions(env map[string]string) func() {
	type saved struct {
		value   string
		present bool
	}
	prior := make(map[string]saved)
	for name, value := range env {
		if looksLikeSecretName(name) {
			continue
		}
		old, ok := os.LookupEnv(name)
		prior[name] = saved{value: old, present: ok}
		os.Setenv(name, value)
	}
	return func() {
		for name, s := range prior {
			if s.present {
				os.Setenv(name, s.value)
			} else {
				os.Unsetenv(name)
			}
		}
	}
}

func utcClock() string {
	return time.Now().UTC().Format(time.RFC3339)
}
