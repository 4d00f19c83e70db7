package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// GitHubProvider validates GitHub tokens against the authenticated-user
// endpoint.
//
// GitHub overloads 403: a rate-limited token and a token missing scopes
// both get 403, distinguished by x-ratelimit-remaining.
type GitHubProvider struct {
	provider.Base
}

func NewGitHubProvider() *GitHubProvider {
	return &GitHubProvider{Base: provider.Base{
		ProviderName: "github",
		EnvPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^GITHUB_(TOKEN|API_KEY|PAT)(_ALT\d+)?$`),
			regexp.MustCompile(`^GH_TOKEN(_ALT\d+)?$`),
		},
		KeyFormat: regexp.MustCompile(`^(ghp_[A-Za-z0-9]{36}|gho_[A-Za-z0-9]{36}|github_pat_[A-Za-z0-9_]{22,}|v[0-9]\.[0-9a-f]{40})$`),
	}}
}

func (p *GitHubProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.github.com/user",
		withBearer(key),
		withHeader("Accept", "application/vnd.github+json"))
	if err != nil {
		return provider.Outcome{}, err
	}
	rl := provider.ParseRateLimit(resp.Header, "x-ratelimit")
	switch resp.StatusCode {
	case http.StatusOK:
		body := resp.jsonMap()
		login := nestedString(body, "login")
		if login == "" {
			login = "unknown"
		}
		var scopes []string
		for _, s := range strings.Split(resp.Header.Get("x-oauth-scopes"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				scopes = append(scopes, s)
			}
		}
		return provider.Outcome{
			Status:      provider.StatusValid,
			AccountInfo: "user:" + login,
			Scopes:      scopes,
			RateLimit:   rl,
		}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, RateLimit: rl, ErrorDetail: "Bad credentials"}, nil
	case http.StatusForbidden:
		if resp.Header.Get("x-ratelimit-remaining") == "0" {
			return provider.Outcome{Status: provider.StatusQuotaExhausted, RateLimit: rl, ErrorDetail: "Rate limit exceeded"}, nil
		}
		return provider.Outcome{Status: provider.StatusInsufficientScope, RateLimit: rl, ErrorDetail: "Forbidden, missing scopes"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, RateLimit: rl, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
