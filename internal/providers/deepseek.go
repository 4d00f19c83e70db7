package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// DeepSeekProvider validates DeepSeek keys via the OpenAI-compatible
// models endpoint.
type DeepSeekProvider struct {
	provider.Base
}

func NewDeepSeekProvider() *DeepSeekProvider {
	return &DeepSeekProvider{Base: provider.Base{
		ProviderName: "deepseek",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^DEEPSEEK_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^sk-[a-f0-9]{32,}$`),
	}}
}

func (p *DeepSeekProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.deepseek.com/models", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "data")
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%d models accessible", count)}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limit exceeded"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
