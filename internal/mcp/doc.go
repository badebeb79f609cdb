// Package mcp exposes a built index snapshot to MCP clients over stdio.
//
// The server is strictly read-only. Three tools are registered:
//
//   - search_symbols: FTS5 full-text search over symbol names and values
//   - lookup_node: device tree node lookup by path or override reference
//   - get_status: snapshot metadata and aggregate counts
//
// stdout is reserved for the MCP protocol; anything the process wants to
// log goes to stderr.
package mcp
