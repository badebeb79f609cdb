package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bsptools/bspindex/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleSearchSymbols handles the search_symbols tool invocation
func (s *Server) handleSearchSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	matches, err := s.store.SearchSymbols(ctx, query, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]interface{}{
			"name":  m.Name,
			"value": m.Value,
			"kind":  m.Kind,
			"file":  m.FilePath,
			"line":  m.Line,
		})
	}

	response := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLookupNode handles the lookup_node tool invocation
func (s *Server) handleLookupNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	nodes, err := s.store.GetNodesByPath(ctx, path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "node lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, 0, len(nodes))
	for _, node := range nodes {
		properties, err := s.store.ListPropertiesByNode(ctx, node.ID)
		if err != nil {
			return nil, newMCPError(ErrorCodeInternalError, "property lookup failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		props := make([]map[string]interface{}, 0, len(properties))
		for _, p := range properties {
			props = append(props, map[string]interface{}{
				"name":  p.Name,
				"value": p.Value,
				"line":  p.Line,
			})
		}
		results = append(results, map[string]interface{}{
			"path":       node.Path,
			"name":       node.Name,
			"label":      node.Label,
			"address":    node.Address,
			"start_line": node.StartLine,
			"end_line":   node.EndLine,
			"properties": props,
		})
	}

	response := map[string]interface{}{
		"path":  path,
		"count": len(results),
		"nodes": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read snapshot stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	metadata := map[string]interface{}{}
	for _, key := range []string{"last_index_time", "project_path", "indexer_version"} {
		value, err := s.store.GetMetadata(ctx, key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeInternalError, "failed to read snapshot metadata", map[string]interface{}{
				"error": err.Error(),
			})
		}
		metadata[key] = value
	}

	response := map[string]interface{}{
		"metadata": metadata,
		"statistics": map[string]interface{}{
			"files":         stats.Files,
			"symbols":       stats.Symbols,
			"includes":      stats.Includes,
			"dt_nodes":      stats.Nodes,
			"dt_properties": stats.Properties,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
