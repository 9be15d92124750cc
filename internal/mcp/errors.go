package mcp

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidState is matched by every error returned for an operation
	// attempted in the wrong session state. No request is sent in that case.
	ErrInvalidState = errors.New("invalid session state")

	// ErrSessionExpired is matched by a StatusError for a 404 on a request
	// that carried a session id: the server no longer knows the session.
	ErrSessionExpired = errors.New("session expired")
)

// StateError reports an operation attempted in a state that does not allow it.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: %s in state %s", e.Op, ErrInvalidState, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// TransportError reports that no HTTP response was obtained: connection
// refused, TLS failure, timeout, or a failed auth header lookup.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string

	sessionBound bool
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: http status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: http status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is reports ErrSessionExpired for a 404 answered to a session request.
func (e *StatusError) Is(target error) bool {
	return target == ErrSessionExpired && e.sessionBound && e.StatusCode == http.StatusNotFound
}

// ProtocolError reports a well-formed HTTP exchange whose content violates
// the MCP contract, such as a missing Mcp-Session-Id header after initialize.
type ProtocolError struct {
	Op     string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol violation: %s", e.Op, e.Reason)
}

// RPCError is a JSON-RPC 2.0 error object. It is returned as-is when the
// server rejects a call with an error envelope.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// ToolError reports a tool that ran but returned isError: true. The
// exchange itself succeeded and the session is unaffected.
type ToolError struct {
	Tool    string
	Message string
	Result  *ToolResult
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s returned error: %s", e.Tool, e.Message)
}
