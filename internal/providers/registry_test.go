package providers_test

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/keyaudit/internal/providers"
	"github.com/systmms/keyaudit/pkg/provider"
)

func TestRegistryHasSixteenProviders(t *testing.T) {
	t.Parallel()

	r := providers.NewRegistry()
	assert.Equal(t, 16, r.Len())
}

func TestRegistryKnownProvidersPresent(t *testing.T) {
	t.Parallel()

	r := providers.NewRegistry()
	for _, name := range []string{
		"openai", "github", "anthropic", "google", "stripe",
		"slack", "sendgrid", "huggingface", "groq", "cohere",
	} {
		_, err := r.Get(name)
		assert.NoError(t, err, "%s missing from registry", name)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	t.Parallel()

	r := providers.NewRegistry()
	_, err := r.Get("nonexistent_provider_xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestRegistryActive(t *testing.T) {
	t.Parallel()

	r := providers.NewRegistry()

	all, err := r.Active(nil)
	require.NoError(t, err)
	assert.Len(t, all, 16)

	subset, err := r.Active([]string{"openai", "github"})
	require.NoError(t, err)
	assert.Len(t, subset, 2)

	_, err = r.Active([]string{"openai", "not_a_real_provider"})
	assert.Error(t, err)
}

// customProvider checks that registering an out-of-tree adapter needs
// nothing beyond one Register call.
type customProvider struct {
	provider.Base
}

func (p *customProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	return provider.Outcome{Status: provider.StatusValid}, nil
}

func TestRegistryExtensible(t *testing.T) {
	t.Parallel()

	r := providers.NewRegistry()
	r.Register(&customProvider{Base: provider.Base{
		ProviderName: "custom",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^CUSTOM_KEY$`)},
		KeyFormat:    regexp.MustCompile(`^ck-[a-z]+$`),
	}})

	assert.Equal(t, 17, r.Len())
	p, err := r.Get("custom")
	require.NoError(t, err)
	assert.True(t, p.MatchesEnvVar("CUSTOM_KEY"))
}

func TestEnvVarMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		provider string
		envVar   string
		want     bool
	}{
		{"openai", "OPENAI_API_KEY", true},
		{"openai", "OPENAI_API_KEY_ALT1", true},
		{"github", "GITHUB_TOKEN", true},
		{"github", "GH_TOKEN", true},
		{"anthropic", "ANTHROPIC_API_KEY", true},
		{"stripe", "STRIPE_SECRET_KEY", true},
		{"slack", "SLACK_BOT_TOKEN", true},
		{"groq", "GROQ_API_KEY", true},
		{"openai", "GITHUB_TOKEN", false},
		{"github", "OPENAI_API_KEY", false},
		{"anthropic", "RANDOM_KEY", false},
		{"stripe", "OPENAI_API_KEY", false},
		{"openai", "XOPENAI_API_KEY", false},
		{"openai", "OPENAI_API_KEY_BACKUP", false},
	}

	r := providers.NewRegistry()
	for _, tt := range tests {
		p, err := r.Get(tt.provider)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.MatchesEnvVar(tt.envVar),
			"%s vs %s", tt.provider, tt.envVar)
	}
}

func TestKeyFormatCheck(t *testing.T) {
	t.Parallel()

	valid := []struct {
		provider string
		key      string
	}{
		{"openai", "sk-" + repeat("a", 48)},
		{"github", "ghp_" + repeat("A", 36)},
		{"github", "github_pat_" + repeat("a", 22)},
		{"anthropic", "sk-ant-" + repeat("a", 40)},
		{"groq", "gsk_" + repeat("a", 48)},
		{"huggingface", "hf_" + repeat("A", 30)},
		{"twilio", repeat("a1", 16)},
		{"sendgrid", "SG." + repeat("a", 22) + "." + repeat("b", 43)},
	}
	invalid := []struct {
		provider string
		key      string
	}{
		{"openai", "not-a-key"},
		{"github", "bad-token"},
		{"anthropic", "sk-wrong-prefix"},
		{"groq", "invalid"},
		{"twilio", "ZZZZ"},
	}

	r := providers.NewRegistry()
	for _, tt := range valid {
		p, err := r.Get(tt.provider)
		require.NoError(t, err)
		assert.NoError(t, p.CheckFormat(tt.key), "%s should accept %s...", tt.provider, tt.key[:4])
	}
	for _, tt := range invalid {
		p, err := r.Get(tt.provider)
		require.NoError(t, err)
		assert.Error(t, p.CheckFormat(tt.key), "%s should reject %s", tt.provider, tt.key)
	}
}

func repeat(s string, n int) string { return strings.Repeat(s, n) }
