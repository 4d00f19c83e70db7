package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// SlackProvider validates Slack tokens via auth.test.
//
// Slack answers 200 even for bad tokens and signals the real outcome in
// the body's ok/error fields, so the mapping here is body-driven.
type SlackProvider struct {
	provider.Base
}

func NewSlackProvider() *SlackProvider {
	return &SlackProvider{Base: provider.Base{
		ProviderName: "slack",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^SLACK_(BOT_TOKEN|TOKEN|API_TOKEN)(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^xox[bpas]-[A-Za-z0-9-]{10,}$`),
	}}
}

func (p *SlackProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodPost, "https://slack.com/api/auth.test", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		retry := resp.Header.Get("Retry-After")
		if retry == "" {
			retry = "unknown"
		}
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: fmt.Sprintf("Rate limited, retry after %ss", retry)}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
	}

	body := resp.jsonMap()
	if ok, _ := body["ok"].(bool); !ok {
		errCode := nestedString(body, "error")
		if errCode == "" {
			errCode = "unknown_error"
		}
		switch errCode {
		case "invalid_auth", "not_authed", "token_revoked":
			return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: errCode}, nil
		case "account_inactive":
			return provider.Outcome{Status: provider.StatusSuspendedAccount, ErrorDetail: errCode}, nil
		case "missing_scope":
			return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: errCode}, nil
		}
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: errCode}, nil
	}

	user := nestedString(body, "user")
	if user == "" {
		user = "unknown"
	}
	team := nestedString(body, "team")
	if team == "" {
		team = "unknown"
	}
	return provider.Outcome{Status: provider.StatusValid, AccountInfo: user + "@" + team}, nil
}
