package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gnana997/propscan/pkg/analyzer"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleAnalyzeProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.engine.AnalyzeProps(ctx, analyzer.AnalyzeRequest{
		Path:          path,
		ComponentName: req.GetString("component_name", ""),
		PropName:      req.GetString("prop_name", ""),
		IncludeTypes:  analyzer.Bool(req.GetBool("include_types", true)),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

func (s *Server) handleFindPropUsage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	propName, err := req.RequireString("prop_name")
	if err != nil || propName == "" {
		return mcp.NewToolResultError("prop_name is required"), nil
	}
	path, errResult := requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.engine.FindPropUsage(ctx, analyzer.PropUsageRequest{
		PropName:      propName,
		Path:          path,
		ComponentName: req.GetString("component_name", ""),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

func (s *Server) handleGetComponentProps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("component_name is required"), nil
	}
	path, errResult := requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.engine.GetComponentProps(ctx, analyzer.ComponentPropsRequest{
		ComponentName: name,
		Path:          path,
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

func (s *Server) handleFindComponentsWithoutProp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("component_name")
	if err != nil || name == "" {
		return mcp.NewToolResultError("component_name is required"), nil
	}
	prop, err := req.RequireString("required_prop")
	if err != nil || prop == "" {
		return mcp.NewToolResultError("required_prop is required"), nil
	}
	path, errResult := requirePath(req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := s.engine.FindComponentsWithoutProp(ctx, analyzer.MissingPropRequest{
		ComponentName:               name,
		RequiredProp:                prop,
		Path:                        path,
		AssumeSpreadHasRequiredProp: analyzer.Bool(req.GetBool("assume_spread_has_required_prop", true)),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(result)
}

// requirePath validates the path argument without touching the filesystem.
func requirePath(req mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	path, err := req.RequireString("path")
	if err != nil || path == "" {
		return "", mcp.NewToolResultError("path is required")
	}
	if !filepath.IsAbs(path) {
		return "", mcp.NewToolResultError(fmt.Sprintf("path must be absolute: %q", path))
	}
	return filepath.Clean(path), nil
}

// toolError reports request failures as tool errors. Cancellation is
// returned as a protocol error.
func toolError(err error) (*mcp.CallToolResult, error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if t := analyzer.ErrorTypeOf(err); t != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %v", t, err)), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
