package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// MistralProvider validates Mistral keys via the models endpoint. Mistral
// keys carry no distinctive prefix, so auto-detection treats this pattern
// as a last resort (zero specificity).
type MistralProvider struct {
	provider.Base
}

func NewMistralProvider() *MistralProvider {
	return &MistralProvider{Base: provider.Base{
		ProviderName: "mistral",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^MISTRAL_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^[A-Za-z0-9]{20,}$`),
	}}
}

func (p *MistralProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.mistral.ai/v1/models", withBearer(key))
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
