package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CountOption selects how PostgREST computes the total row count reported
// in the content-range header.
type CountOption string

// Supported count algorithms, mapped verbatim into a Prefer: count=<value>
// header fragment.
const (
	CountExact     CountOption = "exact"
	CountPlanned   CountOption = "planned"
	CountEstimated CountOption = "estimated"
)

// request holds the state accumulated across a builder chain. Each chain
// step clones it, so builders never share mutable state.
type request struct {
	url     string
	headers map[string]string
	schema  string
	method  string
	body    any

	// err records the first construction failure (e.g. an unparsable URL)
	// and is surfaced by Execute before any network I/O.
	err error
}

func (r request) clone() request {
	headers := make(map[string]string, len(r.headers))
	for k, v := range r.headers {
		headers[k] = v
	}
	r.headers = headers
	return r
}

// appendSearchParam appends a query parameter to the request URL, preserving
// the order of any existing parameters. Duplicate names are kept; PostgREST
// treats repeated filters as an implicit AND.
func (r *request) appendSearchParam(name, value string) {
	if r.err != nil {
		return
	}
	u, err := url.Parse(r.url)
	if err != nil {
		r.err = fmt.Errorf("%w: %q: %w", ErrInvalidURL, r.url, err)
		return
	}
	param := url.QueryEscape(name) + "=" + url.QueryEscape(value)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	r.url = u.String()
}

func (r *request) setHeader(name, value string) {
	r.headers[name] = value
}

// appendPrefer comma-joins a fragment onto any existing Prefer header value.
func (r *request) appendPrefer(fragment string) {
	if existing := r.headers["Prefer"]; existing != "" {
		r.headers["Prefer"] = existing + "," + fragment
		return
	}
	r.headers["Prefer"] = fragment
}

// builder is the request state shared by every chain stage.
type builder struct {
	client *Client
	req    request
}

func (b builder) clone() builder {
	b.req = b.req.clone()
	return b
}

// ExecuteBuilder is a chain stage ready to perform the terminal network call.
type ExecuteBuilder struct {
	builder
}

// executeOptions holds per-execution settings.
type executeOptions struct {
	head  bool
	count CountOption
}

// ExecuteOption configures a single Execute call.
type ExecuteOption func(*executeOptions)

// WithHead forces the request method to HEAD, discarding the response body
// server-side. Combine with WithCount to fetch only a row count.
func WithHead() ExecuteOption {
	return func(o *executeOptions) {
		o.head = true
	}
}

// WithCount asks the server to report the total row count in the
// content-range header.
func WithCount(count CountOption) ExecuteOption {
	return func(o *executeOptions) {
		o.count = count
	}
}

// Execute performs the accumulated request and parses the response.
//
// Configuration failures (no table operation selected, unparsable URL) are
// returned before any network I/O. Transport errors are forwarded unchanged.
// Non-2xx responses are returned as a *ServerError when the body carries a
// structured PostgREST error, or ErrUnknownError otherwise.
func (e ExecuteBuilder) Execute(ctx context.Context, opts ...ExecuteOption) (*Response, error) {
	var options executeOptions
	for _, opt := range opts {
		opt(&options)
	}

	req := e.req.clone()
	if req.err != nil {
		return nil, req.err
	}

	if options.head {
		req.method = http.MethodHead
	}
	if options.count != "" {
		req.appendPrefer("count=" + string(options.count))
	}

	if req.method == "" {
		return nil, ErrMissingOperation
	}

	readOnly := req.method == http.MethodGet || req.method == http.MethodHead
	if readOnly {
		req.setHeader("Content-Type", "application/json")
	}
	if req.schema != "" {
		if readOnly {
			req.setHeader("Accept-Profile", req.schema)
		} else {
			req.setHeader("Content-Profile", req.schema)
		}
	}

	if _, err := url.ParseRequestURI(req.url); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidURL, req.url, err)
	}

	var body io.Reader
	if req.body != nil && !readOnly {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for name, value := range req.headers {
		httpReq.Header.Set(name, value)
	}

	e.client.logger.Debug().
		Str("method", req.method).
		Str("url", req.url).
		Msg("Executing PostgREST request")

	resp, err := e.client.httpClient.Do(httpReq)
	if err != nil {
		// Transport errors are forwarded unchanged.
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return parseResponse(req.method, payload, resp.StatusCode, resp.Header)
}

// parseResponse classifies an HTTP response by status code and produces
// either a success envelope or a typed failure.
func parseResponse(method string, payload []byte, status int, header http.Header) (*Response, error) {
	if status >= 200 && status < 300 {
		// HEAD responses negotiated as CSV keep the body as raw bytes;
		// anything else present must be valid JSON.
		if method == http.MethodHead && header.Get("Accept") != "text/csv" && len(payload) > 0 {
			if !json.Valid(payload) {
				return nil, fmt.Errorf("failed to decode response body: invalid JSON")
			}
		}
		return &Response{
			Body:   payload,
			Status: status,
			Count:  parseContentRange(header.Get("Content-Range")),
		}, nil
	}

	var serverErr ServerError
	if err := json.Unmarshal(payload, &serverErr); err != nil || serverErr.Message == "" {
		return nil, ErrUnknownError
	}
	serverErr.HTTPStatus = status
	return nil, &serverErr
}

// parseContentRange extracts the total row count from a content-range header
// value of the form "start-end/total". A missing header, a "*" total or an
// unparsable total all yield CountUnknown, never an error.
func parseContentRange(value string) int64 {
	if value == "" {
		return CountUnknown
	}
	parts := strings.Split(value, "/")
	total := parts[len(parts)-1]
	if total == "*" {
		return CountUnknown
	}
	count, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return CountUnknown
	}
	return count
}
