package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// SendGridProvider validates SendGrid keys against the scopes endpoint,
// which doubles as a permission listing for valid keys.
type SendGridProvider struct {
	provider.Base
}

func NewSendGridProvider() *SendGridProvider {
	return &SendGridProvider{Base: provider.Base{
		ProviderName: "sendgrid",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^SENDGRID_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^SG\.[A-Za-z0-9_-]{22}\.[A-Za-z0-9_-]{43}$`),
	}}
}

func (p *SendGridProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.sendgrid.com/v3/scopes", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var scopes []string
		if list, ok := resp.jsonMap()["scopes"].([]any); ok {
			for _, s := range list {
				if str, ok := s.(string); ok {
					scopes = append(scopes, str)
				}
			}
		}
		return provider.Outcome{Status: provider.StatusValid, Scopes: scopes}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: "Forbidden"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limited"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
