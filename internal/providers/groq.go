package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// GroqProvider validates Groq keys via the OpenAI-compatible models
// endpoint.
type GroqProvider struct {
	provider.Base
}

func NewGroqProvider() *GroqProvider {
	return &GroqProvider{Base: provider.Base{
		ProviderName: "groq",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^GROQ_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^gsk_[A-Za-z0-9]{20,}$`),
	}}
}

func (p *GroqProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.groq.com/openai/v1/models", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	rl := provider.ParseRateLimit(resp.Header, "x-ratelimit")
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "data")
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%d models accessible", count), RateLimit: rl}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, RateLimit: rl, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, RateLimit: rl, ErrorDetail: "Rate limit exceeded"}, nil
	case http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusInsufficientScope, RateLimit: rl, ErrorDetail: "Forbidden"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, RateLimit: rl, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
