package provider_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/keyaudit/pkg/provider"
)

func TestFingerprintKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		wantPrefix string
		wantSuffix string
		wantLength int
	}{
		{
			name:       "normal key",
			key:        "sk-abc123xyz",
			wantPrefix: "sk-a",
			wantSuffix: "3xyz",
			wantLength: 12,
		},
		{
			name:       "short key keeps full prefix and empty suffix",
			key:        "ab",
			wantPrefix: "ab",
			wantSuffix: "",
			wantLength: 2,
		},
		{
			name:       "exactly four characters",
			key:        "abcd",
			wantPrefix: "abcd",
			wantSuffix: "abcd",
			wantLength: 4,
		},
		{
			name:       "empty key",
			key:        "",
			wantPrefix: "",
			wantSuffix: "",
			wantLength: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fp := provider.FingerprintKey(tt.key)
			assert.Equal(t, tt.wantPrefix, fp.Prefix)
			assert.Equal(t, tt.wantSuffix, fp.Suffix)
			assert.Equal(t, tt.wantLength, fp.Length)
		})
	}
}

func TestStatusFailing(t *testing.T) {
	t.Parallel()

	failing := []provider.Status{
		provider.StatusAuthFailed,
		provider.StatusSuspendedAccount,
		provider.StatusQuotaExhausted,
		provider.StatusInsufficientScope,
	}
	for _, s := range failing {
		assert.True(t, s.Failing(), "%s should be failing", s)
	}

	for _, s := range []provider.Status{
		provider.StatusValid,
		provider.StatusInvalidFormat,
		provider.StatusNetworkError,
	} {
		assert.False(t, s.Failing(), "%s should not be failing", s)
	}

	assert.Len(t, provider.AllStatuses, 7)
}

func TestKeyResultCanonicalFieldOrder(t *testing.T) {
	t.Parallel()

	r := provider.KeyResult{
		Provider:       "openai",
		EnvVar:         "OPENAI_API_KEY",
		KeyFingerprint: provider.Fingerprint{Prefix: "sk-t", Suffix: "xyz1", Length: 51},
		Status:         provider.StatusValid,
	}
	raw, err := json.Marshal(r)
	require.NoError(t, err)

	// Walk the top-level object tokens to recover field order.
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	_, err = dec.Token() // opening brace
	require.NoError(t, err)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		require.NoError(t, err)
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}

	assert.Equal(t, []string{
		"provider", "env_var", "key_fingerprint", "status", "account_info",
		"scopes", "rate_limit", "usage_stats", "latency_ms", "error_detail",
		"auto_detected",
	}, keys)
}

func TestKeyResultSerializationStable(t *testing.T) {
	t.Parallel()

	r := provider.KeyResult{
		Provider:       "openai",
		EnvVar:         "K",
		KeyFingerprint: provider.Fingerprint{Prefix: "sk-t", Suffix: "xyz1", Length: 51},
		Status:         provider.StatusValid,
		LatencyMS:      42.56789,
	}
	j1, err := json.Marshal(r)
	require.NoError(t, err)
	j2, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, j1, j2)
	assert.Contains(t, string(j1), `"latency_ms":42.57`)
}

func TestKeyResultNeverContainsRawSecret(t *testing.T) {
	t.Parallel()

	raw := "sk-SUPERSECRETKEY1234567890abcdef"
	r := provider.KeyResult{
		Provider:       "openai",
		EnvVar:         "OPENAI_API_KEY",
		KeyFingerprint: provider.FingerprintKey(raw),
		Status:         provider.StatusValid,
	}

	serialized, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(serialized), raw)

	// fmt-style representations must not leak either.
	assert.NotContains(t, strings.ReplaceAll(r.KeyFingerprint.Prefix+r.KeyFingerprint.Suffix, raw, "LEAK"), "LEAK")
}
