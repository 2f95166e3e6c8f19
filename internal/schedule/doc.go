// Package schedule implements the meeting-scheduling decision engine.
//
// The engine evaluates candidate meeting times for groups of participants
// with heterogeneous time zones, working hours, and productivity patterns.
// Each operation is a pure computation over an immutable Snapshot of users
// and meetings supplied by the caller; the engine holds no mutable state
// between requests, so concurrent requests need no coordination.
//
// # Key Components
//
//   - AvailabilityIndex: per-participant sorted busy intervals for a window
//   - Detector: overlap detection with hard/soft/buffer severities
//   - PatternModel: productivity by local hour, blended with meeting history
//   - Convenience and fairness rotation across recurring occurrences
//   - Engine.FindOptimalSlots: ranked candidate slots with score breakdowns
//   - Engine.CalculateWorkloadBalance: team load dispersion and flags
//   - ScoreEffectiveness: deterministic 0-10 rating of a held meeting
//   - Engine.OptimizeSchedule: reschedule/rebalance/agenda recommendations
//
// All instants are stored and compared in UTC; local time is derived only
// for presentation and for convenience/productivity scoring.
package schedule
