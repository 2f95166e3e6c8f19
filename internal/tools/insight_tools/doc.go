// Package insight_tools provides MCP (Model Context Protocol) tools for
// analyzing meeting habits and improving schedules.
//
// Where schedule_tools answers "when can we meet", this package answers
// "how are we meeting": per-user pattern reports, team workload balance,
// structural effectiveness scores and prioritized optimization advice.
//
// # Available Tools
//
// Analysis:
//   - analyze_meeting_patterns: Summarize one user's meeting habits
//   - calculate_workload_balance: Compare load across a team
//   - score_meeting_effectiveness: Score meetings on structural signals
//   - optimize_meeting_schedule: Suggest schedule improvements for a user
//
// # Analysis Windows
//
// Pattern analysis looks backward (default 30 days), workload balance and
// optimization look forward (defaults 7 and 14 days). Callers override the
// windows per request; all instants are RFC 3339.
//
// score_meeting_effectiveness persists its scores onto the stored meetings
// unless the server runs read-only, so later pattern and optimization runs
// can reuse them.
package insight_tools
