package mcp

import (
	"context"
	"net/http"
)

// Transport carries the HTTP exchanges of one session. Implementations return
// an error only when no HTTP response was obtained; status codes are reported
// in the Reply and classified by the Session.
type Transport interface {
	// Post sends a JSON-RPC message body as an HTTP POST.
	Post(ctx context.Context, headers SessionHeaders, body []byte) (*Reply, error)
	// Delete asks the server to terminate the session.
	Delete(ctx context.Context, headers SessionHeaders) (*Reply, error)
	// Close releases any resources held by the transport.
	Close() error
}

// Reply is an HTTP response as seen by the Session.
type Reply struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// SessionHeaders is the per-session header set captured from initialize.
// The zero value sends no session headers.
type SessionHeaders struct {
	ID              string
	ProtocolVersion string
}

// Header names of the Streamable HTTP transport.
const (
	HeaderSessionID       = "Mcp-Session-Id"
	HeaderProtocolVersion = "Mcp-Protocol-Version"
)

// Apply sets the non-empty session headers on h.
func (s SessionHeaders) Apply(h http.Header) {
	if s.ID != "" {
		h.Set(HeaderSessionID, s.ID)
	}
	if s.ProtocolVersion != "" {
		h.Set(HeaderProtocolVersion, s.ProtocolVersion)
	}
}
