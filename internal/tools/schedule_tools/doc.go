// Package schedule_tools provides MCP (Model Context Protocol) tools for
// finding meeting times and managing the shared calendar.
//
// This package exposes the scheduling engine through a standardized MCP
// interface, allowing AI assistants to search for slots, check candidate
// times for conflicts, and create meetings on behalf of users.
//
// # Available Tools
//
// Scheduling:
//   - find_optimal_slots: Rank candidate slots across all participants
//   - detect_scheduling_conflicts: Classify clashes for one or more users
//   - create_meeting: Create a meeting (refused on hard conflicts)
//
// # Write Gating
//
// create_meeting mutates the store and is only registered when the server
// runs with writes enabled (--yolo). In read-only mode clients see the
// scheduling surface without any mutating tools.
//
// All engine state comes from the server context's store; every invocation
// works on a fresh snapshot, so concurrent tool calls never observe
// half-applied writes.
package schedule_tools
