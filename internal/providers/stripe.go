package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// StripeProvider validates Stripe secret and restricted keys against the
// account endpoint, using basic auth with the key as the username.
type StripeProvider struct {
	provider.Base
}

func NewStripeProvider() *StripeProvider {
	return &StripeProvider{Base: provider.Base{
		ProviderName: "stripe",
		EnvPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(STRIPE_(SECRET_KEY|API_KEY|RESTRICTED_KEY)|PRIVATE_KEY)(_ALT\d+)?$`),
		},
		KeyFormat: regexp.MustCompile(`^(sk|rk)_(test|live)_[A-Za-z0-9]{10,}$`),
	}}
}

func (p *StripeProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.stripe.com/v1/account", withBasicAuth(key, ""))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		body := resp.jsonMap()
		acctID := nestedString(body, "id")
		if acctID == "" {
			acctID = "unknown"
		}
		charges := "disabled"
		if enabled, _ := body["charges_enabled"].(bool); enabled {
			charges = "enabled"
		}
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%s (charges: %s)", acctID, charges)}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limited"}, nil
	case http.StatusForbidden:
		body := resp.jsonMap()
		if nestedString(body, "error", "code") == "account_invalid" {
			return provider.Outcome{Status: provider.StatusSuspendedAccount, ErrorDetail: "Account suspended"}, nil
		}
		msg := nestedString(body, "error", "message")
		if msg == "" {
			msg = "Forbidden"
		}
		return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: msg}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
