// Package provider defines the capability contract for credential
// validation adapters in keyaudit.
//
// Each external service (OpenAI, GitHub, Stripe, ...) is represented by one
// Provider: a stateless, named adapter that knows which environment
// variable names belong to it, what its keys look like syntactically, and
// how to interpret exactly one probe request against the service's live
// endpoint.
//
// # Implementing a Provider
//
// Embed Base for the pattern-matching half of the contract and implement
// Validate for the network half:
//
//	type AcmeProvider struct {
//	    provider.Base
//	}
//
//	func NewAcmeProvider() *AcmeProvider {
//	    return &AcmeProvider{Base: provider.Base{
//	        ProviderName: "acme",
//	        EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^ACME_API_KEY$`)},
//	        KeyFormat:    regexp.MustCompile(`^ak-[a-z0-9]{32}$`),
//	    }}
//	}
//
//	func (p *AcmeProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
//	    // one GET against the fixed acme endpoint, map the response
//	}
//
// New adapters are registered from the central registry bootstrap; no other
// component changes.
//
// # Error discipline
//
// Validate interprets the HTTP response deterministically: 200 maps to
// StatusValid, 401 to StatusAuthFailed, 429 to StatusQuotaExhausted, 403 to
// StatusInsufficientScope or StatusSuspendedAccount depending on the body,
// and anything else to StatusNetworkError. Transport failures are returned
// as errors; CheckKey coerces them (and panics) to StatusNetworkError so
// that a single misbehaving adapter can never take down a batch.
//
// # Security
//
// Adapters must never log a key or place it anywhere in an Outcome. The
// only key-derived data in a KeyResult is its Fingerprint.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// Provider is the capability contract every credential adapter implements.
//
// Providers are stateless and cheap to construct; one instance is shared
// read-only across all concurrent validation tasks of a run, so
// implementations must not mutate themselves inside Validate.
type Provider interface {
	// Name returns the adapter's stable lowercase identifier ("openai",
	// "github", ...), used for registration, caching, and reporting.
	Name() string

	// MatchesEnvVar reports whether name fully matches one of the
	// adapter's declared environment variable patterns.
	MatchesEnvVar(name string) bool

	// CheckFormat is the pure local syntax check. It performs no I/O and
	// returns a non-nil error for secrets that cannot possibly be valid
	// for this provider.
	CheckFormat(key string) error

	// KeyPattern exposes the key syntax pattern so the auto-detect engine
	// can classify unmatched values by literal-prefix specificity.
	KeyPattern() *regexp.Regexp

	// Validate issues the adapter's single fixed probe request and maps
	// the response onto an Outcome. Transport and decoding failures are
	// returned as errors, never panics by intent; CheckKey guards against
	// both.
	Validate(ctx context.Context, key string, client *http.Client) (Outcome, error)
}

// Base supplies the pattern-matching half of the Provider contract.
// Concrete adapters embed it and add only Validate.
type Base struct {
	// ProviderName is the adapter's registry identifier.
	ProviderName string

	// EnvPatterns are anchored patterns for environment variable names
	// owned by this provider, checked in order.
	EnvPatterns []*regexp.Regexp

	// KeyFormat is the anchored syntax pattern a plausible key must match.
	KeyFormat *regexp.Regexp
}

// Name implements Provider.
func (b *Base) Name() string { return b.ProviderName }

// MatchesEnvVar implements Provider.
func (b *Base) MatchesEnvVar(name string) bool {
	for _, p := range b.EnvPatterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}

// CheckFormat implements Provider.
func (b *Base) CheckFormat(key string) error {
	if !b.KeyFormat.MatchString(key) {
		return fmt.Errorf("key does not match expected %s format", b.ProviderName)
	}
	return nil
}

// KeyPattern implements Provider.
func (b *Base) KeyPattern() *regexp.Regexp { return b.KeyFormat }

// EnvPatternStrings returns the declared env var patterns as source text,
// for listings and diagnostics.
func (b *Base) EnvPatternStrings() []string {
	out := make([]string, len(b.EnvPatterns))
	for i, p := range b.EnvPatterns {
		out[i] = p.String()
	}
	return out
}

// CheckKey is the only entry point the orchestrator uses. It runs the local
// format check first and returns StatusInvalidFormat with zero network
// calls on failure. Otherwise it calls Validate with wall-clock latency
// measured around it and coerces any error or panic raised inside Validate
// into a StatusNetworkError result carrying the fault's type name and
// message. CheckKey itself never fails.
func CheckKey(ctx context.Context, p Provider, envVar, key string, client *http.Client) KeyResult {
	fp := FingerprintKey(key)
	if err := p.CheckFormat(key); err != nil {
		return KeyResult{
			Provider:       p.Name(),
			EnvVar:         envVar,
			KeyFingerprint: fp,
			Status:         StatusInvalidFormat,
			ErrorDetail:    err.Error(),
		}
	}

	start := time.Now()
	out, err := safeValidate(ctx, p, key, client)
	latency := RoundMS(float64(time.Since(start)) / float64(time.Millisecond))
	if err != nil {
		return KeyResult{
			Provider:       p.Name(),
			EnvVar:         envVar,
			KeyFingerprint: fp,
			Status:         StatusNetworkError,
			LatencyMS:      latency,
			ErrorDetail:    fmt.Sprintf("%T: %v", err, err),
		}
	}
	return KeyResult{
		Provider:       p.Name(),
		EnvVar:         envVar,
		KeyFingerprint: fp,
		Status:         out.Status,
		AccountInfo:    out.AccountInfo,
		Scopes:         out.Scopes,
		RateLimit:      out.RateLimit,
		UsageStats:     out.UsageStats,
		LatencyMS:      latency,
		ErrorDetail:    out.ErrorDetail,
	}
}

// safeValidate converts a panicking adapter into an ordinary error.
func safeValidate(ctx context.Context, p Provider, key string, client *http.Client) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s panicked: %v", p.Name(), r)
		}
	}()
	return p.Validate(ctx, key, client)
}
