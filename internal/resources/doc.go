// Package resources provides MCP resources for exposing calendar state.
// Resources are read-only data sources that MCP clients can fetch, such as
// the scheduling roster and the near-term meeting list.
//
// Unlike the tools, resources take no arguments; they describe the world
// the scheduling tools operate on and are safe in read-only mode.
package resources
