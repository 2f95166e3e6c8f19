// Package cmd implements the command-line interface for meetfewer.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide scheduling tools for AI assistants
//   - suggest: Print ranked meeting slot suggestions for a set of participants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
