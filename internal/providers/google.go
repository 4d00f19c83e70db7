package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// GoogleProvider validates Gemini API keys. The key travels as a query
// parameter, and Google signals a bad key with 400 rather than 401.
type GoogleProvider struct {
	provider.Base
}

func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{Base: provider.Base{
		ProviderName: "google",
		EnvPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(GOOGLE_API_KEY|GEMINI_API_KEY)(_ALT\d+)?$`),
		},
		KeyFormat: regexp.MustCompile(`^AIza[A-Za-z0-9_-]{35,60}$`),
	}}
}

func (p *GoogleProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	endpoint := "https://generativelanguage.googleapis.com/v1beta/models?key=" + url.QueryEscape(key)
	resp, err := doRequest(ctx, client, http.MethodGet, endpoint)
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "models")
		return provider.Outcome{
			Status:      provider.StatusValid,
			AccountInfo: fmt.Sprintf("%d models accessible", count),
		}, nil
	case http.StatusBadRequest:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusForbidden:
		msg := nestedString(resp.jsonMap(), "error", "message")
		if msg == "" {
			msg = "Forbidden"
		}
		lower := strings.ToLower(msg)
		if strings.Contains(lower, "disabled") || strings.Contains(lower, "not enabled") {
			return provider.Outcome{Status: provider.StatusSuspendedAccount, ErrorDetail: msg}, nil
		}
		return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: msg}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Quota exceeded"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
