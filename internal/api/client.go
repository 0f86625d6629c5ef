// Package api provides the JSON-over-HTTP gateway used by every other
// component. It resolves request URLs against a configured base address,
// attaches the session bearer token, and classifies failures into a small
// error taxonomy so callers never deal with transport details.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds individual HTTP calls. Set Config.Timeout to a
// negative value to disable the bound entirely.
const DefaultTimeout = 15 * time.Second

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds configuration for the gateway client.
type Config struct {
	// BaseURL is the server base address. When empty it is resolved from
	// the config file, environment variables and the localhost default.
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient HTTPDoer

	// Timeout is the per-request timeout used when HTTPClient is nil.
	// Zero means DefaultTimeout; negative disables the timeout.
	Timeout time.Duration

	// Token supplies the bearer credential for outgoing requests (optional).
	Token TokenSource

	// Logger for request-level debug logging.
	Logger zerolog.Logger
}

// Client is the generic request gateway. It is stateless aside from reading
// the ambient token source.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	token      TokenSource
	logger     zerolog.Logger
}

// NewClient creates a gateway client, resolving the base address once.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	} else if timeout < 0 {
		timeout = 0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    ResolveBaseURL(cfg.BaseURL),
		httpClient: httpClient,
		token:      cfg.Token,
		logger:     cfg.Logger,
	}
}

// BaseURL returns the resolved base address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing request, overriding any default.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Response is a parsed server reply.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// IsJSON reports whether the server declared a JSON body.
func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Decode unmarshals a JSON body into v. An empty body is a no-op.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Text returns the body as plain text.
func (r *Response) Text() string {
	return string(r.Body)
}

// Do sends a request and returns the reply, or a classified *Error on any
// non-success status. The body, when non-nil, is serialized as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	if req.Header.Get("Authorization") == "" && c.token != nil {
		if tok := c.token.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("request completed")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, classify(resp.StatusCode, respBody)
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// JSON sends a request and decodes a JSON success body into out. A nil out
// discards the body. Plain-text replies decode only into *string.
func (c *Client) JSON(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	resp, err := c.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	if !resp.IsJSON() {
		if s, ok := out.(*string); ok {
			*s = resp.Text()
			return nil
		}
		return fmt.Errorf("unexpected content type %q", resp.ContentType)
	}
	return resp.Decode(out)
}

// resolve turns a relative path into an absolute URL. Already-absolute
// http(s) URLs pass through unrewritten.
func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Query builds an encoded query string from params, omitting empty values.
// Returns "" when nothing remains, otherwise "?k=v&...".
func Query(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		if value != "" {
			values.Set(key, value)
		}
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
