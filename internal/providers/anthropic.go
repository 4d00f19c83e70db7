package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// AnthropicProvider validates Anthropic API keys via the models endpoint,
// authenticating with the x-api-key header rather than a bearer token.
type AnthropicProvider struct {
	provider.Base
}

func NewAnthropicProvider() *AnthropicProvider {
	return &AnthropicProvider{Base: provider.Base{
		ProviderName: "anthropic",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^ANTHROPIC_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^sk-ant-[A-Za-z0-9_-]{20,}$`),
	}}
}

func (p *AnthropicProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.anthropic.com/v1/models",
		withHeader("x-api-key", key),
		withHeader("anthropic-version", "2023-06-01"))
	if err != nil {
		return provider.Outcome{}, err
	}
	// Anthropic reports reset as seconds-until; ParseRateLimit normalizes.
	rl := provider.ParseRateLimit(resp.Header, "anthropic-ratelimit-requests")
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "data")
		return provider.Outcome{
			Status:      provider.StatusValid,
			AccountInfo: fmt.Sprintf("%d models accessible", count),
			RateLimit:   rl,
		}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, RateLimit: rl, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, RateLimit: rl, ErrorDetail: "Rate limit exceeded"}, nil
	case http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusInsufficientScope, RateLimit: rl, ErrorDetail: "Forbidden"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, RateLimit: rl, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
