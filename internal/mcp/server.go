// Package mcp exposes document reconstruction as Model Context Protocol
// tools, so assistants can read structuredData.json results directly.
package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsawler/docstruct/internal/config"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the docstruct MCP server.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	server *mcp.Server
}

// NewServer creates a server whose tools use cfg for pipeline and output
// defaults. A nil logger uses slog.Default().
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	impl := &mcp.Implementation{
		Name:    "docstruct",
		Version: Version,
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		server: mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
