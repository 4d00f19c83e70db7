package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a provider response is read. Probe
// endpoints return small JSON documents; anything larger is truncated.
const maxBodyBytes = 1 << 20

// response is a fully-read provider reply. Adapters interpret it after the
// connection is already closed, so mapping logic never holds sockets open.
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// jsonMap decodes the body as a JSON object, returning an empty map for
// non-JSON or non-object bodies. Adapters treat malformed bodies as absent
// detail, never as a hard failure.
func (r *response) jsonMap() map[string]any {
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// jsonList decodes the body as a JSON array, returning nil when it is not
// one. A few providers return bare arrays instead of wrapped objects.
func (r *response) jsonList() []any {
	var l []any
	if err := json.Unmarshal(r.Body, &l); err != nil {
		return nil
	}
	return l
}

type requestOpt func(*http.Request)

func withBearer(key string) requestOpt {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}

func withHeader(name, value string) requestOpt {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}

func withBasicAuth(user, pass string) requestOpt {
	return func(req *http.Request) {
		req.SetBasicAuth(user, pass)
	}
}

// doRequest issues one request through the run's shared client and drains
// the response. This is the single transport path every adapter uses.
func doRequest(ctx context.Context, client *http.Client, method, url string, opts ...requestOpt) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// nestedString walks a decoded JSON object along keys and returns the
// string at the end, or "" when any step is missing or mistyped.
func nestedString(m map[string]any, keys ...string) string {
	cur := any(m)
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[k]
	}
	s, _ := cur.(string)
	return s
}

// listLen returns the length of the array under key, or 0.
func listLen(m map[string]any, key string) int {
	l, _ := m[key].([]any)
	return len(l)
}
