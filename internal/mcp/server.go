package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/docview/internal/library"
	"github.com/ziadkadry99/docview/internal/markdown"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the loaded documentation.
type Server struct {
	lib      *library.Library
	renderer markdown.Renderer
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over lib. renderer is used when a tool
// asks for HTML.
func NewServer(lib *library.Library, renderer markdown.Renderer) *Server {
	if renderer == nil {
		renderer = markdown.NewDialect()
	}
	s := &Server{
		lib:      lib,
		renderer: renderer,
	}

	s.mcp = server.NewMCPServer(
		"docview",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listSectionsTool, s.handleListSections)
	s.mcp.AddTool(getSectionTool, s.handleGetSection)
	s.mcp.AddTool(searchDocsTool, s.handleSearchDocs)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
