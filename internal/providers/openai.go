package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// OpenAIProvider validates OpenAI API keys against the models endpoint.
type OpenAIProvider struct {
	provider.Base
}

func NewOpenAIProvider() *OpenAIProvider {
	return &OpenAIProvider{Base: provider.Base{
		ProviderName: "openai",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^OPENAI_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^sk-[A-Za-z0-9_-]{20,}$`),
	}}
}

func (p *OpenAIProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.openai.com/v1/models", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	rl := provider.ParseRateLimit(resp.Header, "x-ratelimit")
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
		return provider.Outcome{Status: provider.StatusQuotaExhausted, RateLimit: rl, ErrorDetail: "Rate limit or quota exceeded"}, nil
	case http.StatusForbidden:
		code := nestedString(resp.jsonMap(), "error", "code")
		if strings.Contains(code, "account") || strings.Contains(code, "deactivated") {
			return provider.Outcome{Status: provider.StatusSuspendedAccount, RateLimit: rl, ErrorDetail: code}, nil
		}
		if code == "" {
			code = "Forbidden"
		}
		return provider.Outcome{Status: provider.StatusInsufficientScope, RateLimit: rl, ErrorDetail: code}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, RateLimit: rl, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
