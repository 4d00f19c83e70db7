package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// OpenRouterProvider validates OpenRouter keys against the key-info
// endpoint, which also reports the key's label, spend limit, and usage.
type OpenRouterProvider struct {
	provider.Base
}

func NewOpenRouterProvider() *OpenRouterProvider {
	return &OpenRouterProvider{Base: provider.Base{
		ProviderName: "openrouter",
		EnvPatterns: []*regexp.Regexp{
			regexp.MustCompile(`^OPEN_ROUTER_(API_KEY|MANAGEMENT_KEY)(_ALT\d+)?$`),
			regexp.MustCompile(`^OPENROUTER_API_KEY(_ALT\d+)?$`),
		},
		KeyFormat: regexp.MustCompile(`^sk-or-v1-[a-f0-9]{64}$`),
	}}
}

func (p *OpenRouterProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://openrouter.ai/api/v1/auth/key", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		data, _ := resp.jsonMap()["data"].(map[string]any)
		label := nestedString(data, "label")
		if label == "" {
			label = "unnamed"
		}
		usage := map[string]any{}
		if v, ok := data["limit"]; ok {
			usage["limit"] = v
		}
		if v, ok := data["usage"]; ok {
			usage["usage"] = v
		}
		if len(usage) == 0 {
			usage = nil
		}
		return provider.Outcome{
			Status:      provider.StatusValid,
			AccountInfo: "label:" + label,
			UsageStats:  usage,
		}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limit exceeded"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
