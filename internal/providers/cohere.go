package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// CohereProvider validates Cohere keys against the models listing.
type CohereProvider struct {
	provider.Base
}

func NewCohereProvider() *CohereProvider {
	return &CohereProvider{Base: provider.Base{
		ProviderName: "cohere",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^(COHERE_API_KEY|CO_API_KEY)(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^[A-Za-z0-9]{40}$`),
	}}
}

func (p *CohereProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.cohere.com/v1/models", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "models")
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%d models accessible", count)}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: "Forbidden"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limited"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
