package insight_tools

import (
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/batch"
)

// Default analysis windows. Patterns look backward at held meetings,
// workload and optimization look forward at scheduled ones.
const (
	DefaultPatternDays  = 30
	DefaultWorkloadDays = 7
	DefaultOptimizeDays = 14
)

// RegisterInsightTools registers the analysis tools with the MCP server.
// readOnly controls whether score_meeting_effectiveness persists its scores.
func RegisterInsightTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register pattern analysis tools
	if err := RegisterPatternTools(s, sc); err != nil {
		return fmt.Errorf("failed to register pattern tools: %w", err)
	}

	// Register workload balance tools
	if err := RegisterWorkloadTools(s, sc); err != nil {
		return fmt.Errorf("failed to register workload tools: %w", err)
	}

	// Register effectiveness scoring tools
	if err := RegisterEffectivenessTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register effectiveness tools: %w", err)
	}

	// Register schedule optimization tools
	if err := RegisterOptimizerTools(s, sc); err != nil {
		return fmt.Errorf("failed to register optimizer tools: %w", err)
	}

	return nil
}

// parseTimeArg parses a required RFC3339 time argument from request arguments
func parseTimeArg(args map[string]interface{}, name string) (time.Time, error) {
	raw, ok := args[name].(string)
	if !ok || raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %v", name, err)
	}
	return t, nil
}

// parseIDList parses a parameter holding user or meeting IDs. It accepts an
// array of strings or a single string, and splits comma-separated strings
// so both {"ids": ["a", "b"]} and {"ids": "a, b"} work.
func parseIDList(param interface{}, paramName string) ([]string, error) {
	values, err := batch.ParseStringOrArray(param, paramName)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if id := strings.TrimSpace(part); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s cannot be empty", paramName)
	}
	return ids, nil
}

// analysisWindow resolves an optional range_start/range_end pair, falling
// back to a window of fallbackDays starting now.
func analysisWindow(args map[string]interface{}, now time.Time, fallbackDays int) (schedule.Interval, error) {
	start := now
	if _, given := args["range_start"]; given {
		parsed, err := parseTimeArg(args, "range_start")
		if err != nil {
			return schedule.Interval{}, err
		}
		start = parsed
	}

	end := start.AddDate(0, 0, fallbackDays)
	if _, given := args["range_end"]; given {
		parsed, err := parseTimeArg(args, "range_end")
		if err != nil {
			return schedule.Interval{}, err
		}
		end = parsed
	}

	window := schedule.Interval{Start: start, End: end}
	return window, window.Validate()
}
