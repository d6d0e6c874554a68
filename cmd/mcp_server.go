package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/findui/internal/config"
	"github.com/mj1618/findui/internal/finder"
	"github.com/mj1618/findui/internal/output"
	"github.com/mj1618/findui/internal/version"
)

// mcpServer wraps the MCP server. Every tool call opens its own provider
// and calls are serialized.
type mcpServer struct {
	cfg      MCPConfig
	defaults config.Config
	log      *slog.Logger
	mu       sync.Mutex
	mcp      *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	Backend   string
	Fixture   string // serve this YAML tree instead of the desktop
}

// newMCPServer creates an MCP server with the findui tools registered.
func newMCPServer(cfg MCPConfig, defaults config.Config, log *slog.Logger) *mcpServer {
	s := &mcpServer{cfg: cfg, defaults: defaults, log: log}
	s.mcp = mcpserver.NewMCPServer("findui", version.Version)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve() error {
	switch s.cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return &finder.InvalidArgumentError{Name: "transport", Value: s.cfg.Transport, Expected: "stdio or streamable-http"}
	}
}

func (s *mcpServer) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("find_elements",
			mcp.WithDescription("Wait for a window, resolve an anchor element inside it (mouse cursor, attribute predicates, or the window itself) and list the accessibility tree below the anchor."),
			mcp.WithString("window-title", mcp.Description("Window title; exact match unless title-re or title-glob is set. Optional only with cursor.")),
			mcp.WithBoolean("title-re", mcp.Description("Treat window-title as a regular expression matched at the start")),
			mcp.WithBoolean("title-glob", mcp.Description("Treat window-title as a shell-style glob")),
			mcp.WithString("depth", mcp.Description(`Levels below the anchor: integer >= 0 or "max" (default from config, else 3)`)),
			mcp.WithNumber("timeout", mcp.Description("Seconds to wait for the window (>= 1)")),
			mcp.WithString("anchor-control-type", mcp.Description("Anchor control type, e.g. Button")),
			mcp.WithString("anchor-title", mcp.Description("Anchor title")),
			mcp.WithString("anchor-name", mcp.Description("Anchor name (same predicate as anchor-title)")),
			mcp.WithString("anchor-class-name", mcp.Description("Anchor class name")),
			mcp.WithString("anchor-auto-id", mcp.Description("Anchor automation id")),
			mcp.WithNumber("anchor-found-index", mcp.Description("Which match to anchor on (0-based)")),
			mcp.WithBoolean("cursor", mcp.Description("Anchor on the element under the mouse cursor")),
			mcp.WithNumber("cursor-delay", mcp.Description("Seconds to wait before sampling the cursor")),
			mcp.WithBoolean("promote", mcp.Description("With cursor, move a hit outside the window to its nearest element inside it")),
			mcp.WithBoolean("only-visible", mcp.Description("Only list visible and enabled elements")),
			mcp.WithNumber("max-items", mcp.Description("Stop after this many elements (>= 1; omit for unlimited)")),
			mcp.WithString("format", mcp.Description("Output format: json (default), yaml, text, selector, native")),
			mcp.WithString("fields", mcp.Description("Comma-separated fields for json and yaml output")),
			mcp.WithBoolean("emit-selector", mcp.Description("Add selector lines (text and selector formats)")),
		),
		s.handleFindElements,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List top-level windows with title, class, owning process and rectangle"),
			mcp.WithString("title", mcp.Description("Only list windows matching this title (exact unless title-re or title-glob)")),
			mcp.WithBoolean("title-re", mcp.Description("Treat title as a regular expression")),
			mcp.WithBoolean("title-glob", mcp.Description("Treat title as a shell-style glob")),
			mcp.WithString("format", mcp.Description("Output format: json (default), yaml, text")),
		),
		s.handleListWindows,
	)
}

func (s *mcpServer) handleFindElements(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	req, err := findRequestFromParams(params, s.defaults)
	if err != nil {
		return toolError(err), nil
	}
	cfg, err := req.finderConfig(s.defaults.PollInterval)
	if err != nil {
		return toolError(err), nil
	}

	format, err := output.ParseFormat(stringParam(params, "format", string(output.FormatJSON)))
	if err != nil {
		return toolError(&usageError{err}), nil
	}
	formatter, err := output.New(format, output.Options{
		Fields:       output.ParseFields(stringParam(params, "fields", "")),
		EmitSelector: boolParam(params, "emit-selector", false),
		Depth:        cfg.Depth,
	})
	if err != nil {
		return toolError(&usageError{err}), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := openSession(s.cfg.Fixture, s.cfg.Backend, s.log)
	if err != nil {
		return toolError(err), nil
	}
	defer sess.Close()

	f := &finder.Finder{Provider: sess.provider, Sampler: sess.sampler, Logger: s.log}
	records, anchor, err := f.FindWithAnchor(ctx, cfg)
	if err != nil {
		return toolError(err), nil
	}
	var buf bytes.Buffer
	if err := writeRecords(&buf, formatter, records, sess, anchor); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *mcpServer) handleListWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	spec, err := windowsTitleSpec(
		stringParam(params, "title", ""),
		boolParam(params, "title-re", false),
		boolParam(params, "title-glob", false),
	)
	if err != nil {
		return toolError(err), nil
	}
	format, err := output.ParseFormat(stringParam(params, "format", string(output.FormatJSON)))
	if err != nil {
		return toolError(&usageError{err}), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := openSession(s.cfg.Fixture, s.cfg.Backend, s.log)
	if err != nil {
		return toolError(err), nil
	}
	defer sess.Close()

	windows, err := listWindows(sess.provider, spec, s.log)
	if err != nil {
		return toolError(err), nil
	}
	var buf bytes.Buffer
	if err := output.WriteWindows(&buf, format, windows, false); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// findRequestFromParams reads find_elements arguments over the config defaults.
func findRequestFromParams(params map[string]interface{}, defaults config.Config) (findRequest, error) {
	req := newFindRequest(defaults)
	req.Title = stringParam(params, "window-title", "")
	req.TitleRegex = boolParam(params, "title-re", false)
	req.TitleGlob = boolParam(params, "title-glob", false)
	req.Depth = stringParam(params, "depth", req.Depth)
	req.Timeout = floatParam(params, "timeout", req.Timeout)
	req.CursorDelay = floatParam(params, "cursor-delay", req.CursorDelay)
	req.OnlyVisible = boolParam(params, "only-visible", req.OnlyVisible)
	req.Cursor = boolParam(params, "cursor", false)
	req.Promote = boolParam(params, "promote", false)
	req.FoundIndex = intParam(params, "anchor-found-index", 0)
	if v, ok := params["max-items"]; ok && v != nil {
		req.MaxItems = intParam(params, "max-items", 0)
		if req.MaxItems < 1 {
			return req, &finder.InvalidArgumentError{Name: "max-items", Value: fmt.Sprint(v), Expected: "an integer >= 1"}
		}
	}

	req.Predicates = make(map[string]string)
	for _, f := range anchorFlags {
		if v := stringParam(params, f.flag, ""); v != "" {
			req.Predicates[f.key] = v
		}
	}
	return req, nil
}

// toolError reports err to the client along with the exit code the CLI
// would have used.
func toolError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%v (exit code %d)", err, exitCode(err)))
}

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// Numbers arrive as float64, e.g. a depth of 2.
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func intParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func floatParam(params map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
