package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// ErrToolNameRequired is returned by CallTool for an empty tool name.
var ErrToolNameRequired = errors.New("tool name is required")

// Session drives one MCP session over a Transport: initialize, tool
// discovery and invocation, and termination. Calls are synchronous and
// serialized; each request is answered before the next one is sent.
//
// A Session is single use. Once closed it cannot be reopened.
type Session struct {
	transport Transport
	logger    *slog.Logger
	timeout   time.Duration
	client    ClientInfo

	mu              sync.Mutex
	state           State
	nextID          int64
	headers         SessionHeaders
	serverInfo      ServerInfo
	closeStatus     int
	transportClosed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger. A nil logger means slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestTimeout bounds each individual call. Zero disables the bound
// and leaves deadlines to the caller's context and the transport.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithClientInfo sets the client name and version sent in initialize.
func WithClientInfo(name, version string) Option {
	return func(s *Session) {
		s.client = ClientInfo{Name: name, Version: version}
	}
}

// NewSession creates an uninitialized session using the given transport.
// The session owns the transport and closes it when the session ends.
func NewSession(transport Transport, opts ...Option) *Session {
	s := &Session{
		transport: transport,
		logger:    slog.Default(),
		client:    ClientInfo{Name: "mcpsession", Version: "dev"},
		state:     StateUninitialized,
		nextID:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the server-issued session id, or "" before initialize.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers.ID
}

// Headers returns the session headers attached to every request after
// initialize.
func (s *Session) Headers() SessionHeaders {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers
}

// ServerInfo returns the server identity captured by Initialize.
func (s *Session) ServerInfo() ServerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverInfo
}

// Initialize performs the initialize exchange. On success the session is
// active and carries the Mcp-Session-Id issued by the server. Any failure
// leaves the session failed; Close must still be called.
func (s *Session) Initialize(ctx context.Context) (ServerInfo, error) {
	const op = MethodInitialize

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return ServerInfo{}, &StateError{Op: op, State: s.state}
	}
	s.state = StateInitializing

	info, err := s.initialize(ctx)
	if err != nil {
		s.state = StateFailed
		s.logger.Error("MCP session initialization failed", "error", err)
		return ServerInfo{}, err
	}

	s.state = StateActive
	s.serverInfo = info
	s.logger = s.logger.With("session_id", s.headers.ID)
	s.logger.Info("MCP session initialized",
		"server_name", info.Name,
		"server_version", info.Version,
		"protocol_version", s.headers.ProtocolVersion,
	)
	return info, nil
}

func (s *Session) initialize(ctx context.Context) (ServerInfo, error) {
	const op = MethodInitialize

	id := s.allocID()
	req := NewRequest(id, MethodInitialize, InitializeParams{
		ProtocolVersion: ProtocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo:      s.client,
	})

	reply, err := s.roundTrip(ctx, op, req)
	if err != nil {
		return ServerInfo{}, err
	}

	// Keep the id even if the rest of the reply is unusable, so Close can
	// release the server-side session.
	sid := reply.Header.Get(HeaderSessionID)
	s.headers.ID = sid

	resp, err := s.decode(op, reply, id)
	if err != nil {
		return ServerInfo{}, err
	}
	if sid == "" {
		return ServerInfo{}, &ProtocolError{Op: op, Reason: "missing " + HeaderSessionID + " header"}
	}

	var result InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return ServerInfo{}, &ProtocolError{Op: op, Reason: "unmarshal result: " + err.Error()}
	}
	if result.ServerInfo == nil {
		return ServerInfo{}, &ProtocolError{Op: op, Reason: "missing result.serverInfo"}
	}

	s.headers.ProtocolVersion = result.ProtocolVersion
	return *result.ServerInfo, nil
}

// NotifyInitialized sends the notifications/initialized notification. The
// server's acknowledgment is not inspected beyond its status, and delivery
// failures are logged rather than returned: the session stays active either
// way. Only calling it outside the active state is an error.
func (s *Session) NotifyInitialized(ctx context.Context) error {
	const op = MethodNotificationInitialized

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return &StateError{Op: op, State: s.state}
	}

	body, err := json.Marshal(NewNotification(op, nil))
	if err != nil {
		return fmt.Errorf("%s: marshal notification: %w", op, err)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	reply, err := s.transport.Post(ctx, s.headers, body)
	if err != nil {
		s.logger.Warn("initialized notification not delivered", "error", err)
		return nil
	}
	switch {
	case !isSuccess(reply.StatusCode):
		s.logger.Warn("initialized notification rejected", "status", reply.StatusCode)
	case reply.StatusCode != http.StatusAccepted:
		s.logger.Debug("initialized notification acknowledged with unexpected status", "status", reply.StatusCode)
	}
	return nil
}

// ListTools sends a tools/list request and returns the tools in server
// order. Every tool must carry a name; otherwise nothing is returned.
func (s *Session) ListTools(ctx context.Context) ([]Tool, error) {
	const op = MethodToolsList

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, &StateError{Op: op, State: s.state}
	}

	resp, err := s.call(ctx, op, nil)
	if err != nil {
		return nil, err
	}

	var result ToolsListResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, &ProtocolError{Op: op, Reason: "unmarshal result: " + err.Error()}
	}
	if result.Tools == nil {
		return nil, &ProtocolError{Op: op, Reason: "missing result.tools"}
	}
	tools := *result.Tools
	for i, t := range tools {
		if t.Name == "" {
			return nil, &ProtocolError{Op: op, Reason: fmt.Sprintf("tool at index %d has no name", i)}
		}
	}

	s.logger.Info("discovered MCP tools", "count", len(tools))
	return tools, nil
}

// CallTool invokes the named tool. A JSON-RPC error envelope is returned as
// an *RPCError. A tool that ran and reported isError yields both the result
// and a *ToolError carrying the first content item's text.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	const op = MethodToolsCall

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, &StateError{Op: op, State: s.state}
	}
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrToolNameRequired)
	}
	if args == nil {
		args = map[string]any{}
	}

	resp, err := s.call(ctx, op, CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, err
	}

	var result ToolResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, &ProtocolError{Op: op, Reason: "unmarshal result: " + err.Error()}
	}

	if result.IsError {
		s.logger.Info("MCP tool reported error", "tool", name)
		return &result, &ToolError{Tool: name, Message: result.Text(), Result: &result}
	}
	return &result, nil
}

// Close terminates the session with a DELETE carrying the session id and
// releases the transport. The session is closed whatever the outcome; the
// returned status is informational and is 0 when no request was sent.
// Calling Close again does nothing and returns the first status.
func (s *Session) Close(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return s.closeStatus, nil
	}

	var err error
	if s.headers.ID != "" {
		dctx, cancel := s.callContext(ctx)
		reply, derr := s.transport.Delete(dctx, s.headers)
		cancel()
		if derr != nil {
			err = &TransportError{Op: "close", Err: derr}
			s.logger.Warn("MCP session termination failed", "error", derr)
		} else {
			s.closeStatus = reply.StatusCode
		}
	}

	s.state = StateClosed
	s.release()
	s.logger.Info("MCP session closed", "status", s.closeStatus)
	return s.closeStatus, err
}

// allocID returns the next request ID and increments the counter.
func (s *Session) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// call sends a request with a fresh id and returns a response that carries
// a result. Callers hold s.mu.
func (s *Session) call(ctx context.Context, method string, params any) (*Response, error) {
	id := s.allocID()
	reply, err := s.roundTrip(ctx, method, NewRequest(id, method, params))
	if err != nil {
		return nil, err
	}
	return s.decode(method, reply, id)
}

// roundTrip posts msg and classifies transport and status failures.
func (s *Session) roundTrip(ctx context.Context, op string, msg *Request) (*Reply, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	ctx, cancel := s.callContext(ctx)
	defer cancel()

	s.logger.Debug("sending MCP request", "method", msg.Method, "id", msg.ID)
	reply, err := s.transport.Post(ctx, s.headers, body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if !isSuccess(reply.StatusCode) {
		return nil, s.statusError(op, reply)
	}
	return reply, nil
}

// decode turns a 2xx reply into a response for request id, surfacing a
// JSON-RPC error envelope as *RPCError.
func (s *Session) decode(op string, reply *Reply, id int64) (*Response, error) {
	resp, err := decodeResponse(reply, id)
	if err != nil {
		return nil, &ProtocolError{Op: op, Reason: err.Error()}
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w", op, resp.Error)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, &ProtocolError{Op: op, Reason: "response has neither result nor error"}
	}
	return resp, nil
}

// statusError builds the error for a non-2xx reply. A 404 on an active
// session means the server has dropped it, so the session is closed.
func (s *Session) statusError(op string, reply *Reply) error {
	serr := &StatusError{
		Op:           op,
		StatusCode:   reply.StatusCode,
		Body:         truncate(string(reply.Body), 512),
		sessionBound: s.headers.ID != "",
	}
	if errors.Is(serr, ErrSessionExpired) && s.state == StateActive {
		s.logger.Warn("MCP session expired on server", "method", op)
		s.state = StateClosed
		s.release()
	}
	return serr
}

// callContext applies the per-request timeout, if any.
func (s *Session) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return ctx, func() {}
}

// release closes the transport exactly once.
func (s *Session) release() {
	if s.transportClosed {
		return
	}
	s.transportClosed = true
	if err := s.transport.Close(); err != nil {
		s.logger.Warn("closing MCP transport", "error", err)
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
