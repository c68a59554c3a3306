package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/youverse/dupliverse/internal/client/models"
	"github.com/youverse/dupliverse/internal/common"
)

// HTTPClient is the Client implementation against the backend's REST surface:
//
//	GET    /rest/v1/profiles/{id}
//	POST   /rest/v1/profiles
//	PATCH  /rest/v1/profiles/{id}
//
// GetProfile retries transient failures with a fixed delay; writes are never
// retried automatically (the store's rollback discipline owns write failures).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	http       *http.Client
	maxRetries uint64
	retryDelay time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client (tests, custom timeouts).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithFetchRetry tunes the fixed-delay retry policy applied to GetProfile.
func WithFetchRetry(attempts uint64, delay time.Duration) Option {
	return func(h *HTTPClient) {
		h.maxRetries = attempts
		h.retryDelay = delay
	}
}

func NewHTTPClient(baseURL, apiKey string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		tokens:     tokens,
		http:       &http.Client{Timeout: 10 * time.Second},
		maxRetries: 2,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var profile *models.Profile

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := c.getProfileOnce(ctx, id)
		if err != nil {
			// Only 5xx/transport failures are worth another attempt.
			if errors.Is(err, ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *HTTPClient) getProfileOnce(ctx context.Context, id string) (*models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/profiles/"+id, nil)
	if err != nil {
		return nil, err
	}
	return c.doProfile(req)
}

func (c *HTTPClient) CreateProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/profiles", p)
	if err != nil {
		return nil, err
	}
	return c.doProfile(req)
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, id string, patch models.ProfilePatch) (*models.Profile, error) {
	req, err := c.newRequest(ctx, http.MethodPatch, "/rest/v1/profiles/"+id, patch)
	if err != nil {
		return nil, err
	}
	return c.doProfile(req)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	if token := c.tokens.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	return req, nil
}

func (c *HTTPClient) doProfile(req *http.Request) (*models.Profile, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var p models.Profile
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		return &p, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: %s", ErrConflict, readAPIError(resp.Body))
	}
}

type apiError struct {
	Error string `json:"error"`
}

func readAPIError(r io.Reader) string {
	var e apiError
	if err := json.NewDecoder(r).Decode(&e); err != nil || e.Error == "" {
		return "unexpected response"
	}
	return e.Error
}
