package providers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// accountSIDPattern guards against SSRF through a crafted SID landing in
// the request path.
var accountSIDPattern = regexp.MustCompile(`^AC[a-f0-9]{32}$`)

// TwilioProvider validates Twilio auth tokens. Twilio needs a companion
// account SID alongside the secret; the orchestrator exposes
// TWILIO_ACCOUNT_SID in the process environment for the duration of the
// run.
type TwilioProvider struct {
	provider.Base
}

func NewTwilioProvider() *TwilioProvider {
	return &TwilioProvider{Base: provider.Base{
		ProviderName: "twilio",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^TWILIO_AUTH_TOKEN(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^[a-f0-9]{32}$`),
	}}
}

func (p *TwilioProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	if sid == "" {
		return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: "TWILIO_ACCOUNT_SID not set"}, nil
	}
	if !accountSIDPattern.MatchString(sid) {
		return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: "Invalid TWILIO_ACCOUNT_SID format"}, nil
	}

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s.json", sid)
	resp, err := doRequest(ctx, client, http.MethodGet, endpoint, withBasicAuth(sid, key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		body := resp.jsonMap()
		name := nestedString(body, "friendly_name")
		if name == "" {
			name = "unknown"
		}
		status := nestedString(body, "status")
		if status == "" {
			status = "unknown"
		}
		if status == "suspended" {
			return provider.Outcome{Status: provider.StatusSuspendedAccount, ErrorDetail: "Account suspended: " + name}, nil
		}
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%s (%s)", name, status)}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid credentials"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limited"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
