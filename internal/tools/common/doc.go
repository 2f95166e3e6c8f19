// Package common provides shared utilities for MCP tool implementations.
// It contains the instrumentation wrappers and argument helpers used across
// the schedule and insight tool packages to avoid code duplication and
// ensure consistent behavior.
package common
