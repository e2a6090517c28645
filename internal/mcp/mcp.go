// Package mcp implements the Model Context Protocol server for conflict checks.
//
// It exposes the conflict search as MCP tools, resources and prompts so that
// an intake assistant can screen a prospective client or opposing party the
// same way the HTTP API does. Every call is scoped to the firm the HTTP
// layer resolved for the session.
package mcp

import (
	"context"
	"log/slog"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/professional-hubs/conflicts/internal/conflicts"
	"github.com/professional-hubs/conflicts/internal/model"
)

// FirmLookup resolves firm metadata for the conflicts://firm resource.
type FirmLookup interface {
	GetFirm(ctx context.Context, id int64) (model.Firm, error)
}

// Deps holds the dependencies for New. Firms is optional.
type Deps struct {
	Checker       *conflicts.Checker
	Firms         FirmLookup
	Logger        *slog.Logger
	Version       string
	SearchTimeout time.Duration
}

// Server wraps the MCP server with the conflict checker.
type Server struct {
	mcpServer     *mcpserver.MCPServer
	checker       *conflicts.Checker
	firms         FirmLookup
	logger        *slog.Logger
	version       string
	searchTimeout time.Duration
}

// New creates and configures a new MCP server with all resources, tools and prompts.
func New(d Deps) *Server {
	s := &Server{
		checker:       d.Checker,
		firms:         d.Firms,
		logger:        d.Logger,
		version:       d.Version,
		searchTimeout: d.SearchTimeout,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		"conflicts",
		d.Version,
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithInstructions("Conflict-of-interest screening for a law firm. "+
			"Call conflicts_check with a person's name parts or a company name before "+
			"taking on a new client or matter. Results are limited to your firm's records."),
	)

	s.registerResources()
	s.registerTools()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: text},
		},
	}
}
