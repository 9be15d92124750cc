package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thellimist/mcpsession/internal/mcp"
	"github.com/thellimist/mcpsession/internal/toolfilter"
)

const (
	defaultURL     = "http://localhost:3000"
	requestTimeout = 30 * time.Second
	demoTool       = "ls"
	descPreviewLen = 80
)

var appVersion = "dev"

func SetVersion(v string) {
	appVersion = v
}

var rootCmd = &cobra.Command{
	Use:   "mcpsession [url]",
	Short: "Run one MCP Streamable HTTP session against a server",
	Long: `mcpsession connects to an MCP server over Streamable HTTP, initializes a
session, lists the server's tools, calls the "ls" tool on the current
directory, and closes the session.

Examples:
  # Local server on the default address
  mcpsession

  # Remote server
  mcpsession https://mcp.example.com/mcp`,
	Args:          cobra.MatchAll(cobra.MaximumNArgs(1), validateURLArg),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

func init() {
	rootCmd.SetVersionTemplate("mcpsession v{{.Version}}\n")
}

func Execute() error {
	rootCmd.Version = appVersion
	return rootCmd.Execute()
}

func validateURLArg(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	u, err := url.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", args[0], err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q: expected http(s)://host[:port][/path]", args[0])
	}
	return nil
}

func runSession(cmd *cobra.Command, args []string) error {
	target := defaultURL
	if len(args) > 0 {
		target = args[0]
	}

	out := cmd.OutOrStdout()
	logger := slog.New(newColorHandler(cmd.ErrOrStderr(), slog.LevelInfo)).With("url", target)
	ctx := cmd.Context()

	session := mcp.NewSession(mcp.NewHTTPTransport(target),
		mcp.WithLogger(logger),
		mcp.WithRequestTimeout(requestTimeout),
		mcp.WithClientInfo("mcpsession", appVersion),
	)
	// Terminates the session on early returns; a no-op after the final Close.
	defer session.Close(context.WithoutCancel(ctx))

	info, err := session.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("MCP server at %s did not complete initialization: %w", target, err)
	}
	color.New(color.FgGreen).Fprintf(out, "Connected to %s v%s\n", info.Name, info.Version)
	fmt.Fprintf(out, "Session: %s\n\n", session.ID())

	if err := session.NotifyInitialized(ctx); err != nil {
		return err
	}

	tools, err := session.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}
	printTools(out, tools)
	warnIfMissing(logger, tools, demoTool)

	result, err := session.CallTool(ctx, demoTool, map[string]any{"path": "."})
	var toolErr *mcp.ToolError
	switch {
	case errors.As(err, &toolErr):
		color.New(color.FgRed).Fprintf(out, "Tool error: %s\n", toolErr.Message)
	case err != nil:
		return fmt.Errorf("call tool %s: %w", demoTool, err)
	default:
		fmt.Fprintf(out, "%s result:\n%s\n", demoTool, result.Text())
	}
	fmt.Fprintln(out)

	status, err := session.Close(ctx)
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	fmt.Fprintf(out, "Session closed (status %d)\n", status)
	return nil
}

// printTools writes the tool list with one-line description previews. A
// tool without a description prints with an empty one.
func printTools(w io.Writer, tools []mcp.Tool) {
	fmt.Fprintf(w, "Available tools (%d):\n", len(tools))
	for _, t := range tools {
		fmt.Fprintf(w, "  - %s: %s\n", t.Name, preview(t.Description, descPreviewLen))
	}
	fmt.Fprintln(w)
}

// warnIfMissing logs when name is not advertised. The call still goes out
// so the server's own answer is what gets reported.
func warnIfMissing(logger *slog.Logger, tools []mcp.Tool, name string) {
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	if slices.Contains(names, name) {
		return
	}
	attrs := []any{"tool", name}
	if s := toolfilter.SuggestTool(name, names); s != "" {
		attrs = append(attrs, "did_you_mean", s)
	}
	logger.Warn("tool not advertised by server", attrs...)
}

// preview cuts s to at most n runes.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
