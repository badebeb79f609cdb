package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchSymbolsTool returns the tool definition for search_symbols
func searchSymbolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_symbols",
		Description: "Full-text search over indexed symbols (BitBake variables, device tree labels, preprocessor defines)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "FTS5 match expression, e.g. 'KERNEL_DEVICETREE' or 'uart*'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// lookupNodeTool returns the tool definition for lookup_node
func lookupNodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "lookup_node",
		Description: "Look up device tree nodes by computed path or override reference, with their properties",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Node path ('/soc/uart', without any @address suffix) or override reference ('&uart0')",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report snapshot metadata and aggregate fact counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
