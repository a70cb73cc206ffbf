package mcp

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is set by build flags, defaults to "dev" for development builds.
var Version = "dev"

// Server wraps the MCP SDK server with the social posting tool surface.
// It handles STDIO transport and tool registration.
type Server struct {
	mcpServer *mcp.Server
	logger    *log.Logger
}

// NewServer creates a new socialmcp MCP server.
func NewServer() *Server {
	// Errors and warnings go to stderr; stdout carries the protocol.
	logger := log.New(os.Stderr, "[socialmcp] ", log.LstdFlags)

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "socialmcp",
		Version: Version,
	}, nil)

	return &Server{
		mcpServer: mcpServer,
		logger:    logger,
	}
}

// Run starts the MCP server using STDIO transport.
// Malformed JSON handling with -32700 error codes is handled automatically
// by the MCP SDK's underlying JSON-RPC library.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("starting MCP server on STDIO transport")

	err := s.mcpServer.Run(ctx, &mcp.StdioTransport{})
	if err != nil {
		// Don't log context.Canceled as an error, it's normal shutdown
		if err != context.Canceled {
			s.logger.Printf("error: server stopped: %v", err)
		}
		return err
	}
	return nil
}

// MCPServer returns the underlying MCP SDK server for tool registration.
// This allows the caller to register tools using mcp.AddTool().
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Logger returns the server's logger for consistent logging.
func (s *Server) Logger() *log.Logger {
	return s.logger
}
