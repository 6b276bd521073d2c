// Package lookup queries third-party phone number providers over HTTP.
// A lookup makes exactly one request and never returns an error: every
// transport, status and decoding problem is folded into a Failure result.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/corpix/uarand"
	jsoniter "github.com/json-iterator/go"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// UseNumber keeps long numeric phone numbers from turning into floats.
var jsonAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Client performs single-shot JSON GET requests with a fixed timeout.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// NewClient creates a client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   timeout,
		userAgent: uarand.GetRandom(),
	}
}

// GetJSON issues one GET and decodes the body into generic JSON values.
func (c *Client) GetJSON(ctx context.Context, rawURL string) (any, *Failure) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Failure{Kind: KindUnexpected, Message: fmt.Sprintf("build request: %v", stripURL(err))}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Failure{
			Kind:       KindHTTP,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("API returned status code: %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(err)
	}

	var decoded any
	if err := jsonAPI.Unmarshal(body, &decoded); err != nil {
		return nil, &Failure{Kind: KindUnexpected, Message: fmt.Sprintf("invalid response from API: %v", err)}
	}
	return decoded, nil
}

// classify maps a transport error to a Failure.
func classify(err error) *Failure {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Failure{Kind: KindTimeout, Message: "API is taking too long to respond"}
	}
	return &Failure{Kind: KindNetwork, Message: fmt.Sprintf("request failed: %v", stripURL(err))}
}

// stripURL drops the request URL from *url.Error, which would expose the API key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// firstObject reduces a decoded body to the object that matters.
// A sequence contributes its first element only; null and [] mean nothing found.
func firstObject(decoded any) (map[string]any, *Failure) {
	if list, ok := decoded.([]any); ok {
		if len(list) == 0 {
			return nil, nil
		}
		decoded = list[0]
	}
	switch v := decoded.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, &Failure{Kind: KindUnexpected, Message: fmt.Sprintf("unexpected response shape %T", v)}
	}
}
