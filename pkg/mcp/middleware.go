package mcp

import (
	"context"

	"github.com/gnana997/propscan/pkg/mcplog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware records every tool call in s.callLog. A failed log
// write never changes the tool result.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)

			if werr := s.callLog.Write(mcplog.NewEntry(req, start, result, err)); werr != nil {
				s.logger.Warn("failed to write tool call log", "tool", req.Params.Name, "error", werr)
			}
			return result, err
		}
	}
}
