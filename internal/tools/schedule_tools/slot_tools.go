package schedule_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/common"
)

// RegisterSlotTools registers the slot search tool with the MCP server
func RegisterSlotTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	findSlotsTool := mcp.NewTool("find_optimal_slots",
		mcp.WithDescription("Find and rank meeting slots that fit every participant's working hours, productivity patterns, and existing calendar"),
		mcp.WithString("participant_ids",
			mcp.Required(),
			mcp.Description("Participant user IDs, as an array or a comma-separated string"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("range_start",
			mcp.Required(),
			mcp.Description("Start of the search range (RFC3339 format, e.g., '2025-01-06T00:00:00Z')"),
		),
		mcp.WithString("range_end",
			mcp.Required(),
			mcp.Description("End of the search range (RFC3339 format)"),
		),
		mcp.WithNumber("granularity_minutes",
			mcp.Description("Candidate start step in minutes (default: 15)"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of candidates to return (default: 5)"),
		),
		mcp.WithString("priority",
			mcp.Description("Meeting priority; 'high' keeps candidates that only dip mildly below preferences"),
		),
		mcp.WithString("time_of_day",
			mcp.Description("Preferred band in the participants' local time: 'morning', 'afternoon', or 'evening'"),
		),
		mcp.WithString("series_id",
			mcp.Description("Recurring series ID; prior occurrences feed the fairness rotation"),
		),
	)

	s.AddTool(findSlotsTool, common.InstrumentedToolHandlerWithComponent(
		"find_optimal_slots", "scheduler", "search", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFindOptimalSlots(ctx, request, sc)
		}))

	return nil
}

func handleFindOptimalSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	participantIDs, err := parseIDList(args["participant_ids"], "participant_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	durationMinutes, ok := args["duration_minutes"].(float64)
	if !ok || durationMinutes <= 0 {
		return mcp.NewToolResultError("duration_minutes is required and must be positive"), nil
	}

	rangeStart, err := parseTimeArg(args, "range_start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rangeEnd, err := parseTimeArg(args, "range_end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := schedule.SlotRequest{
		ParticipantIDs: participantIDs,
		Duration:       time.Duration(durationMinutes) * time.Minute,
		Range:          schedule.Interval{Start: rangeStart, End: rangeEnd},
	}

	if granularity, ok := args["granularity_minutes"].(float64); ok && granularity > 0 {
		req.Granularity = time.Duration(granularity) * time.Minute
	}
	if maxResults, ok := args["max_results"].(float64); ok && maxResults > 0 {
		req.MaxResults = int(maxResults)
	}
	if priority, ok := args["priority"].(string); ok {
		req.Priority = priority
	}
	if timeOfDay, ok := args["time_of_day"].(string); ok {
		req.TimeOfDay = timeOfDay
	}
	if seriesID, ok := args["series_id"].(string); ok && seriesID != "" {
		req.History = sc.Store().History(seriesID)
	}

	engine, _ := newEngine(sc)
	slots, err := engine.FindOptimalSlots(req)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) || errors.Is(err, schedule.ErrInvalidRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to find slots: %w", err)
	}

	if metrics := sc.Metrics(); metrics != nil {
		metrics.RecordSlotsEvaluated(ctx, len(slots))
	}

	if len(slots) == 0 {
		return mcp.NewToolResultText("No viable slots found; every candidate in the range had a hard conflict or fell outside working hours. Try a wider range or fewer participants."), nil
	}

	jsonBytes, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize slots: %w", err)
	}

	return mcp.NewToolResultText(string(jsonBytes)), nil
}
