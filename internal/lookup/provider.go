package lookup

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/garyellow/phoneinfo-bot/internal/errors"
)

// Provider profiles.
const (
	ProfileTerm = "term" // GET base?key=<api key>&term=<number>
	ProfilePath = "path" // GET base<number>
)

// Provider looks up a normalized number. Fetch never returns an error;
// failures are reported inside the Result.
type Provider interface {
	Fetch(ctx context.Context, number string) Result
}

// Config selects and configures one provider profile.
type Config struct {
	Profile string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates the provider for cfg.Profile.
func New(cfg Config) (Provider, error) {
	if cfg.BaseURL == "" {
		return nil, apperrors.NewValidationError("base_url", "is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, apperrors.NewValidationError("base_url", err.Error())
	}
	client := NewClient(cfg.Timeout)

	switch cfg.Profile {
	case ProfileTerm:
		if cfg.APIKey == "" {
			return nil, apperrors.NewValidationError("api_key", fmt.Sprintf("is required for the %q profile", ProfileTerm))
		}
		return &TermProvider{client: client, baseURL: cfg.BaseURL, apiKey: cfg.APIKey}, nil
	case ProfilePath:
		return &PathProvider{client: client, baseURL: cfg.BaseURL}, nil
	default:
		return nil, fmt.Errorf("lookup: %w: unknown profile %q", apperrors.ErrInvalidInput, cfg.Profile)
	}
}

// TermProvider passes the API key and number as query parameters.
type TermProvider struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewTermProvider creates a key/term provider.
func NewTermProvider(client *Client, baseURL, apiKey string) *TermProvider {
	return &TermProvider{client: client, baseURL: baseURL, apiKey: apiKey}
}

// Fetch implements Provider.
func (p *TermProvider) Fetch(ctx context.Context, number string) Result {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return Fail(&Failure{Kind: KindUnexpected, Message: fmt.Sprintf("invalid base URL: %v", err)})
	}
	q := u.Query()
	q.Set("key", p.apiKey)
	q.Set("term", number)
	u.RawQuery = q.Encode()

	decoded, failure := p.client.GetJSON(ctx, u.String())
	if failure != nil {
		return Fail(failure)
	}
	m, failure := firstObject(decoded)
	if failure != nil {
		return Fail(failure)
	}
	if m == nil {
		return Success(nil)
	}
	return Success(NewTermPayload(m))
}

// PathProvider appends the number to the base URL path.
type PathProvider struct {
	client  *Client
	baseURL string
}

// NewPathProvider creates a path provider.
func NewPathProvider(client *Client, baseURL string) *PathProvider {
	return &PathProvider{client: client, baseURL: baseURL}
}

// Fetch implements Provider.
func (p *PathProvider) Fetch(ctx context.Context, number string) Result {
	// The number is digits and '+', which are valid path characters; escape anyway
	// so a malformed number cannot change the request target.
	target := p.baseURL + url.PathEscape(strings.TrimSpace(number))

	decoded, failure := p.client.GetJSON(ctx, target)
	if failure != nil {
		return Fail(failure)
	}
	m, failure := firstObject(decoded)
	if failure != nil {
		return Fail(failure)
	}
	if m == nil {
		return Success(nil)
	}
	return Success(NewPathPayload(m))
}
