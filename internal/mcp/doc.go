// Package mcp implements the client side of an MCP Streamable HTTP session.
//
// A Session negotiates a session with initialize, announces readiness with
// notifications/initialized, lists and calls tools, and terminates the
// session with an HTTP DELETE. The server-issued Mcp-Session-Id is captured
// once and sent with every later request.
//
// Failures are reported with distinct types so callers can choose a policy
// per kind: *TransportError (no response), *StatusError (non-2xx),
// *ProtocolError (contract violated), *RPCError (JSON-RPC error envelope),
// *ToolError (the tool ran and reported isError), and errors matching
// ErrInvalidState for calls made in the wrong lifecycle state.
package mcp
