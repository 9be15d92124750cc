package mcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/thellimist/mcpsession/internal/auth"
)

// defaultMaxBodyBytes caps how much of a response body is read.
const defaultMaxBodyBytes = 10 << 20

// HTTPTransport implements the Transport interface using Streamable HTTP.
// JSON-RPC messages go out as POST requests to a single endpoint; session
// termination is a DELETE to the same endpoint.
type HTTPTransport struct {
	URL string

	httpClient   *http.Client
	auth         auth.Provider
	maxBodyBytes int64
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.httpClient = c
	}
}

// WithAuth adds the headers of p to every request.
func WithAuth(p auth.Provider) HTTPOption {
	return func(t *HTTPTransport) {
		t.auth = p
	}
}

// WithMaxBodyBytes caps the response body size. A larger body fails the
// request instead of being truncated.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(t *HTTPTransport) {
		t.maxBodyBytes = n
	}
}

// NewHTTPTransport creates a new HTTPTransport targeting the given URL.
func NewHTTPTransport(url string, opts ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		URL:          url,
		httpClient:   &http.Client{},
		auth:         &auth.NoAuth{},
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Post sends body as a JSON-RPC POST and returns the raw reply.
func (t *HTTPTransport) Post(ctx context.Context, headers SessionHeaders, body []byte) (*Reply, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	return t.do(ctx, httpReq, headers)
}

// Delete sends the session termination request. It carries no body.
func (t *HTTPTransport) Delete(ctx context.Context, headers SessionHeaders) (*Reply, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	return t.do(ctx, httpReq, headers)
}

func (t *HTTPTransport) do(ctx context.Context, httpReq *http.Request, headers SessionHeaders) (*Reply, error) {
	authHeaders, err := t.auth.Headers(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth headers: %w", err)
	}
	for k, v := range authHeaders {
		httpReq.Header.Set(k, v)
	}
	headers.Apply(httpReq.Header)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(respBody)) > t.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", t.maxBodyBytes)
	}

	return &Reply{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Close drops idle keep-alive connections held by the HTTP client.
func (t *HTTPTransport) Close() error {
	t.httpClient.CloseIdleConnections()
	return nil
}
