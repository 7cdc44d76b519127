// Package mcpserver exposes the expense store as a set of named tool
// calls plus a read-only categories resource over the agent tool protocol.
package mcpserver

import (
	"context"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"spend/internal/service"
	"spend/internal/taxonomy"
)

const serverName = "ExpenseTracker"

// Server wires the expense service and the categories store into an MCP
// server. Every call is an independent request/response; the server holds
// no state between calls.
type Server struct {
	mcp        *server.MCPServer
	expenses   *service.ExpenseService
	categories *taxonomy.Store
}

func New(version string, expenses *service.ExpenseService, categories *taxonomy.Store) *Server {
	s := &Server{
		mcp: server.NewMCPServer(serverName, version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
		expenses:   expenses,
		categories: categories,
	}

	s.registerTools()
	s.registerResources()

	return s
}

// ServeStdio runs the protocol loop on stdin/stdout until ctx is
// cancelled or stdin closes. Diagnostics go to stderr.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(os.Stderr, "", log.LstdFlags))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
