// Package main serves the demo MCP server over Streamable HTTP on the
// address mcpsession connects to by default.
package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/thellimist/mcpsession/e2e"
)

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	httpServer := server.NewStreamableHTTPServer(e2e.NewDemoServer(root), server.WithEndpointPath("/"))
	slog.Info("serving demo MCP server", "addr", ":3000", "root", root)
	if err := httpServer.Start(":3000"); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
