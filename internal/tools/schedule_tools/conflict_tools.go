package schedule_tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/batch"
	"github.com/teemow/meetfewer/internal/tools/common"
)

// RegisterConflictTools registers the conflict detection tool with the MCP server
func RegisterConflictTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	detectConflictsTool := mcp.NewTool("detect_scheduling_conflicts",
		mcp.WithDescription("Check a candidate time against one or more users' calendars, classifying clashes as hard, soft, or buffer violations"),
		mcp.WithString("user_ids",
			mcp.Required(),
			mcp.Description("User ID or array of user IDs to check"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Candidate start time (RFC3339 format, e.g., '2025-01-06T14:00:00Z')"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Candidate end time (RFC3339 format)"),
		),
	)

	s.AddTool(detectConflictsTool, common.InstrumentedToolHandlerWithComponent(
		"detect_scheduling_conflicts", "conflicts", "detect", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDetectConflicts(ctx, request, sc)
		}))

	return nil
}

func handleDetectConflicts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	// Parse user_ids - can be string or array
	userIDs, err := parseIDList(args["user_ids"], "user_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := parseTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := parseTimeArg(args, "end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	candidate := schedule.Interval{Start: start, End: end}
	if err := candidate.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := sc.Store().Snapshot()
	severityCounts := make(map[schedule.Severity]int)

	// Process batch
	results := batch.ProcessBatch(userIDs, func(userID string) (string, error) {
		report, err := detectForUser(snap, userID, candidate)
		if err != nil {
			return "", err
		}
		for _, c := range report.Conflicts {
			severityCounts[c.Severity]++
		}
		jsonBytes, err := json.Marshal(report)
		if err != nil {
			return "", err
		}
		return string(jsonBytes), nil
	})

	if metrics := sc.Metrics(); metrics != nil {
		for severity, count := range severityCounts {
			metrics.RecordConflictsDetected(ctx, string(severity), count)
		}
	}

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

// detectForUser runs the conflict detector for one user. The index window is
// widened by the user's buffer so neighbors just outside the candidate still
// register as buffer violations.
func detectForUser(snap *schedule.Snapshot, userID string, candidate schedule.Interval) (*schedule.ConflictReport, error) {
	u, err := snap.User(userID)
	if err != nil {
		return nil, err
	}

	window := schedule.Interval{
		Start: candidate.Start.Add(-u.Buffer()),
		End:   candidate.End.Add(u.Buffer()),
	}
	index, err := schedule.BuildAvailabilityIndex(snap, []string{userID}, window)
	if err != nil {
		return nil, err
	}

	return schedule.NewDetector(index).Detect(userID, candidate)
}
