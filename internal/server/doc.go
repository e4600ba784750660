// Package server implements the MCP (Model Context Protocol) server exposing
// size variant generation as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Source Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Geometry:
//   - image_resize_plan: Compute the sampling plan for a target size
//
// Variants:
//   - image_multi_resize: Produce one variant per size
//   - image_register_size_info: Register zoom, quality and filters for a size
//   - image_list_filters: List filters and resize engines
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. A size that could not be produced
// is not an error: it is simply absent from the image_multi_resize result.
package server
