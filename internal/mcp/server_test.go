package mcp

import (
	"strings"
	"testing"
)

func TestNewServer(t *testing.T) {
	server := NewServer()

	if server == nil {
		t.Fatal("NewServer should return non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("NewServer should create underlying MCP server")
	}
	if server.logger == nil {
		t.Error("NewServer should create a logger")
	}
}

func TestServerLoggerPrefix(t *testing.T) {
	server := NewServer()

	if got := server.Logger().Prefix(); !strings.Contains(got, "socialmcp") {
		t.Errorf("Logger prefix = %q, want socialmcp tag", got)
	}
}

func TestMCPServerAccessor(t *testing.T) {
	server := NewServer()
	if server.MCPServer() != server.mcpServer {
		t.Error("MCPServer should return the underlying SDK server")
	}
}
