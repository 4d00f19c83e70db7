package provider

import (
	"encoding/json"
	"math"
)

// Status classifies the outcome of validating one credential.
//
// Exactly seven values exist. Adapters must never invent new ones: every
// response a provider endpoint can produce maps onto this set, and anything
// unexpected collapses to StatusNetworkError.
type Status string

const (
	// StatusValid means the provider accepted the credential.
	StatusValid Status = "valid"

	// StatusInvalidFormat means the credential failed the local syntax
	// check. No network call was made.
	StatusInvalidFormat Status = "invalid_format"

	// StatusAuthFailed means the provider rejected the credential as
	// unknown, revoked, or expired.
	StatusAuthFailed Status = "auth_failed"

	// StatusSuspendedAccount means the credential is recognized but its
	// owning account is deactivated or suspended.
	StatusSuspendedAccount Status = "suspended_account"

	// StatusQuotaExhausted means the credential is recognized but rate
	// limited or out of quota.
	StatusQuotaExhausted Status = "quota_exhausted"

	// StatusInsufficientScope means the credential is recognized but lacks
	// permission for the probe endpoint.
	StatusInsufficientScope Status = "insufficient_scope"

	// StatusNetworkError covers transport failures, timeouts, unexpected
	// response codes, and adapter faults.
	StatusNetworkError Status = "network_error"
)

// AllStatuses lists every Status value.
var AllStatuses = []Status{
	StatusValid,
	StatusInvalidFormat,
	StatusAuthFailed,
	StatusSuspendedAccount,
	StatusQuotaExhausted,
	StatusInsufficientScope,
	StatusNetworkError,
}

// failingStatuses is the subset that counts toward a provider's consecutive
// failure tally in the circuit breaker.
var failingStatuses = map[Status]bool{
	StatusAuthFailed:        true,
	StatusSuspendedAccount:  true,
	StatusQuotaExhausted:    true,
	StatusInsufficientScope: true,
}

// Failing reports whether s counts as a provider-reported failure for
// breaker purposes. StatusInvalidFormat and StatusNetworkError do not
// qualify: the former never reached the provider, the latter says nothing
// about the credential.
func (s Status) Failing() bool {
	return failingStatuses[s]
}

// Fingerprint is a safe, non-reversible preview of a secret: at most four
// characters from each end plus the total length. It is the only
// representation of a secret that may ever be logged, serialized, or
// displayed.
type Fingerprint struct {
	Prefix string `json:"prefix"`
	Suffix string `json:"suffix"`
	Length int    `json:"length"`
}

// FingerprintKey derives a Fingerprint from a raw secret. Keys shorter than
// four characters keep their full text as the prefix and get an empty
// suffix, so the two halves never overlap into a full reveal.
func FingerprintKey(key string) Fingerprint {
	fp := Fingerprint{Length: len(key)}
	if len(key) >= 4 {
		fp.Prefix = key[:4]
		fp.Suffix = key[len(key)-4:]
	} else {
		fp.Prefix = key
	}
	return fp
}

// RateLimitInfo carries a provider's rate-limit headers. ResetTS is always
// an absolute Unix timestamp regardless of whether the source header gave
// an epoch or a seconds-until-reset value.
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetTS   int64 `json:"reset_ts"`
}

// KeyResult is the immutable outcome of auditing one (env var, secret)
// pair. Field declaration order is canonical: serialized forms must list
// provider, env_var, key_fingerprint, status, account_info, scopes,
// rate_limit, usage_stats, latency_ms, error_detail, auto_detected, in that
// order, for every record and every run. encoding/json preserves struct
// declaration order, so the layout below is the invariant.
//
// The raw secret never appears in any field.
type KeyResult struct {
	Provider       string         `json:"provider"`
	EnvVar         string         `json:"env_var"`
	KeyFingerprint Fingerprint    `json:"key_fingerprint"`
	Status         Status         `json:"status"`
	AccountInfo    string         `json:"account_info"`
	Scopes         []string       `json:"scopes"`
	RateLimit      *RateLimitInfo `json:"rate_limit"`
	UsageStats     map[string]any `json:"usage_stats"`
	LatencyMS      float64        `json:"latency_ms"`
	ErrorDetail    string         `json:"error_detail"`
	AutoDetected   bool           `json:"auto_detected"`
}

// MarshalJSON rounds latency to two decimal places so repeated
// serializations of the same result are byte-identical.
func (r KeyResult) MarshalJSON() ([]byte, error) {
	type alias KeyResult
	a := alias(r)
	a.LatencyMS = RoundMS(a.LatencyMS)
	return json.Marshal(a)
}

// RoundMS rounds a millisecond latency to two decimal places.
func RoundMS(ms float64) float64 {
	return math.Round(ms*100) / 100
}

// Outcome is what Validate reports back to CheckKey. Only Status is
// mandatory; everything else is provider-specific detail extracted from the
// response.
type Outcome struct {
	Status      Status
	AccountInfo string
	Scopes      []string
	RateLimit   *RateLimitInfo
	UsageStats  map[string]any
	ErrorDetail string
}
