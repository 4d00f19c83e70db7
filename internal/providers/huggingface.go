package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/systmms/keyaudit/pkg/provider"
)

// HuggingFaceProvider validates Hugging Face tokens via whoami-v2, which
// also reveals the account name, org memberships, and token role.
type HuggingFaceProvider struct {
	provider.Base
}

func NewHuggingFaceProvider() *HuggingFaceProvider {
	return &HuggingFaceProvider{Base: provider.Base{
		ProviderName: "huggingface",
		EnvPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^(HUGGINGFACE_TOKEN|HF_TOKEN|HF_API_KEY|HF_PERSONAL_AUTHENTICATION_TOKEN|HUGGING_FACE_API_KEY)(_ALT\d+)?$`),
		},
		KeyFormat: regexp.MustCompile(`^hf_[A-Za-z0-9]{20,}$`),
	}}
}

func (p *HuggingFaceProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://huggingface.co/api/whoami-v2", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		body := resp.jsonMap()
		username := nestedString(body, "name")
		if username == "" {
			username = "unknown"
		}
		var orgs []string
		if list, ok := body["orgs"].([]any); ok {
			for _, o := range list {
				if org, ok := o.(map[string]any); ok {
					if name := nestedString(org, "name"); name != "" {
						orgs = append(orgs, name)
					}
				}
			}
		}
		account := username
		if len(orgs) > 0 {
			account += " (orgs: " + strings.Join(orgs, ", ") + ")"
		}
		var scopes []string
		if role := nestedString(body, "auth", "accessToken", "role"); role != "" {
			scopes = []string{role}
		}
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: account, Scopes: scopes}, nil
	case http.StatusUnauthorized:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid token"}, nil
	case http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusInsufficientScope, ErrorDetail: "Forbidden"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limited"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
