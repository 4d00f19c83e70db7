package providers

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/systmms/keyaudit/pkg/provider"
)

// NvidiaProvider validates NVIDIA NIM keys against the cloud functions
// listing. NVIDIA answers bad keys with either 401 or 403.
type NvidiaProvider struct {
	provider.Base
}

func NewNvidiaProvider() *NvidiaProvider {
	return &NvidiaProvider{Base: provider.Base{
		ProviderName: "nvidia",
		EnvPatterns:  []*regexp.Regexp{regexp.MustCompile(`^NVIDIA_API_KEY(_ALT\d+)?$`)},
		KeyFormat:    regexp.MustCompile(`^nvapi-[A-Za-z0-9_-]{40,}$`),
	}}
}

func (p *NvidiaProvider) Validate(ctx context.Context, key string, client *http.Client) (provider.Outcome, error) {
	resp, err := doRequest(ctx, client, http.MethodGet, "https://api.nvcf.nvidia.com/v2/nvcf/functions", withBearer(key))
	if err != nil {
		return provider.Outcome{}, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
		count := listLen(resp.jsonMap(), "functions")
		return provider.Outcome{Status: provider.StatusValid, AccountInfo: fmt.Sprintf("%d functions accessible", count)}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return provider.Outcome{Status: provider.StatusAuthFailed, ErrorDetail: "Invalid API key"}, nil
	case http.StatusTooManyRequests:
		return provider.Outcome{Status: provider.StatusQuotaExhausted, ErrorDetail: "Rate limit exceeded"}, nil
	}
	return provider.Outcome{Status: provider.StatusNetworkError, ErrorDetail: fmt.Sprintf("HTTP %d", resp.StatusCode)}, nil
}
