package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// StatusError is a non-2xx answer from the dashboard API.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying may help.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// HTTPClient talks to the dashboard API with a bearer token and retries
// transport failures and 5xx answers.
type HTTPClient struct {
	client     *http.Client
	baseURL    string
	token      string
	name       string // client name for logging
	maxElapsed time.Duration
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(name, baseURL, token string, timeout, maxElapsed time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		client:     &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		name:       name,
		maxElapsed: maxElapsed,
	}
}

// Get makes a GET request
func (c *HTTPClient) Get(ctx context.Context, endpoint string, query url.Values) (*HTTPResponse, error) {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint)
}

// Delete makes a DELETE request
func (c *HTTPClient) Delete(ctx context.Context, endpoint string) (*HTTPResponse, error) {
	return c.do(ctx, http.MethodDelete, endpoint)
}

func (c *HTTPClient) policy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = c.maxElapsed
	b.Reset()
	var bo backoff.BackOff = b
	if c.maxElapsed <= 0 {
		bo = &backoff.StopBackOff{}
	}
	return backoff.WithContext(bo, ctx)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string) (*HTTPResponse, error) {
	target := c.baseURL + endpoint
	var out *HTTPResponse

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, target, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", "newsdesk/"+c.name)
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		log.Debug().
			Str("client", c.name).
			Str("method", method).
			Str("url", target).
			Msg("making HTTP request")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			log.Warn().Str("client", c.name).Str("url", target).Err(err).Msg("HTTP request failed")
			return fmt.Errorf("HTTP request failed: %w", err)
		}

		r, err := c.handleResponse(resp)
		if err != nil {
			return err
		}
		if !r.IsSuccess() {
			serr := &StatusError{StatusCode: r.StatusCode, Message: r.errorMessage()}
			if serr.Temporary() {
				return serr
			}
			return backoff.Permanent(serr)
		}
		out = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Debug().Str("client", c.name).Err(err).Dur("wait", wait).Msg("retrying request")
	}
	if err := backoff.RetryNotify(op, c.policy(ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}

// handleResponse processes the HTTP response
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("client", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	return &HTTPResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// errorMessage prefers the JSON envelope's error over the raw body.
func (r *HTTPResponse) errorMessage() string {
	var env struct {
		Error *string `json:"error"`
	}
	if json.Unmarshal(r.Body, &env) == nil && env.Error != nil {
		return *env.Error
	}
	msg := strings.TrimSpace(string(r.Body))
	if msg == "" {
		msg = http.StatusText(r.StatusCode)
	}
	return msg
}
