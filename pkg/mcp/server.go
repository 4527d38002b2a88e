// Package mcp exposes the prop analyses as MCP tools over stdio.
package mcp

import (
	"log/slog"

	"github.com/gnana997/propscan/pkg/analyzer"
	"github.com/gnana997/propscan/pkg/mcplog"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0-dev"

// Server implements the MCP server for propscan.
type Server struct {
	mcpServer *server.MCPServer
	engine    *analyzer.Engine
	callLog   *mcplog.Logger // nil disables the tool-call log
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by engine. callLog may be nil.
func NewServer(engine *analyzer.Engine, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: engine, callLog: callLog, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("propscan", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: analyzePropsTool(), Handler: s.handleAnalyzeProps},
		server.ServerTool{Tool: findPropUsageTool(), Handler: s.handleFindPropUsage},
		server.ServerTool{Tool: getComponentPropsTool(), Handler: s.handleGetComponentProps},
		server.ServerTool{Tool: findComponentsWithoutPropTool(), Handler: s.handleFindComponentsWithoutProp},
	)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("MCP server listening on stdio", "version", serverVersion)
	return server.ServeStdio(s.mcpServer)
}
