package mcp

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bsptools/bspindex/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "bspindex"
	// ServerVersion is the current server version
	ServerVersion = "2.0.0"
)

// Server exposes a built index snapshot to MCP clients over stdio. It is
// read-only: building a snapshot is the CLI's job.
type Server struct {
	mcp   *server.MCPServer
	store storage.Store
}

// NewServer creates an MCP server over the snapshot at dbPath.
func NewServer(dbPath string) (*Server, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("snapshot not found at %s: %w", dbPath, err)
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:   mcpServer,
		store: store,
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchSymbolsTool(), s.handleSearchSymbols)
	s.mcp.AddTool(lookupNodeTool(), s.handleLookupNode)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}
