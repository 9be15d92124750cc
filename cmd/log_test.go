package cmd

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newColorHandler(&buf, slog.LevelInfo)).With("url", "http://x")

	logger.Debug("hidden")
	logger.Info("MCP session initialized", "server_name", "demo")
	logger.WithGroup("req").Warn("slow", "ms", 1500)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INF MCP session initialized url=http://x server_name=demo\n")
	assert.Contains(t, out, "WRN slow url=http://x req.ms=1500\n")
}
