package schedule_tools

import (
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/batch"
)

// RegisterScheduleTools registers the slot search, conflict detection, and
// meeting creation tools with the MCP server. Write tools are only
// registered when readOnly is false.
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Register slot search tools
	if err := RegisterSlotTools(s, sc); err != nil {
		return fmt.Errorf("failed to register slot tools: %w", err)
	}

	// Register conflict detection tools
	if err := RegisterConflictTools(s, sc); err != nil {
		return fmt.Errorf("failed to register conflict tools: %w", err)
	}

	// Register meeting creation tools (write-gated)
	if err := RegisterMeetingTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register meeting tools: %w", err)
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

// newEngine builds a request-scoped engine over the store's current state
func newEngine(sc *server.ServerContext) (*schedule.Engine, *schedule.Snapshot) {
	snap := sc.Store().Snapshot()
	return schedule.NewEngine(snap, time.Now()), snap
}
