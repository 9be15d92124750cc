// Package e2e holds an MCP server used to exercise the session client over
// real Streamable HTTP.
package e2e

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewDemoServer returns an MCP server exposing an "ls" tool that lists
// directories below root.
func NewDemoServer(root string) *server.MCPServer {
	s := server.NewMCPServer("demo-fs", "1.0.0", server.WithToolCapabilities(false))

	s.AddTool(
		mcp.NewTool("ls",
			mcp.WithDescription("Lists the entries of a directory, one per line"),
			mcp.WithString("path", mcp.Description("Directory relative to the server root")),
		),
		lsHandler(root),
	)

	s.AddTool(
		mcp.NewTool("echo",
			mcp.WithDescription("Echoes the message argument"),
			mcp.WithString("message", mcp.Required(), mcp.Description("Text to echo")),
		),
		func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(req.GetString("message", "")), nil
		},
	)

	return s
}

func lsHandler(root string) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := req.GetString("path", ".")

		dir, err := os.OpenRoot(root)
		if err != nil {
			return nil, fmt.Errorf("open root: %w", err)
		}
		defer dir.Close()

		f, err := dir.Open(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		defer f.Close()

		entries, err := f.ReadDir(-1)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("not a directory: %s", path)), nil
		}

		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		slices.Sort(names)
		return mcp.NewToolResultText(strings.Join(names, "\n")), nil
	}
}
