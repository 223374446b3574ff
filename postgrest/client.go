package postgrest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to a PostgREST server. A single client may serve any number
// of builder chains; each chain owns its own request state.
type Client struct {
	baseURL    string
	schema     string
	headers    map[string]string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSchema selects a non-default database schema via the
// Accept-Profile/Content-Profile headers.
func WithSchema(schema string) Option {
	return func(c *Client) {
		c.schema = schema
	}
}

// WithHeader sets a header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers[name] = value
	}
}

// WithHeaders sets multiple headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for name, value := range headers {
			c.headers[name] = value
		}
	}
}

// WithTokenAuth sets a bearer token sent in the Authorization header.
func WithTokenAuth(token string) Option {
	return func(c *Client) {
		c.headers["Authorization"] = "Bearer " + token
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client, replacing any timeout set via
// WithTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new PostgREST client.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("postgrest URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := &Client{
		baseURL: baseURL,
		headers: make(map[string]string),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// From positions a new builder chain at the given table or view.
func (c *Client) From(table string) QueryBuilder {
	headers := make(map[string]string, len(c.headers))
	for name, value := range c.headers {
		headers[name] = value
	}

	return QueryBuilder{builder{
		client: c,
		req: request{
			url:     c.baseURL + "/" + table,
			headers: headers,
			schema:  c.schema,
		},
	}}
}

// Ping verifies the server is reachable. PostgREST serves its OpenAPI
// description at the root path, so a plain GET suffices.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgREST: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	c.logger.Debug().Str("url", c.baseURL).Msg("Successfully connected to PostgREST")
	return nil
}
