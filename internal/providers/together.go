package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// TogetherProvider validates Together AI keys. Together returns a bare
// JSON array from its models endpoint instead of the usual {data: []}
// wrapper.
type TogetherProvider struct {
	provider.Base
}

func NewTogetherProvider() *TogetherProvider {
	return &TogetherProvider{Base: provider.Base{
		ProviderName: "together",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^TOGETHER_(AI_)?API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^[a-f0-9]{64}$`),
	}}
}

func (p *TogetherProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.together.xyz/v1/models", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		count := len(resp.jsonList())
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%d models accessible", count)}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limit exceeded"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
