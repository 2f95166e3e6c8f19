package insight_tools

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

// RegisterOptimizerTools registers schedule optimization tools with the MCP server
func RegisterOptimizerTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Optimize meeting schedule tool
	optimizeScheduleTool := mcp.NewTool("optimize_meeting_schedule",
		mcp.WithDescription("Review one user's upcoming schedule and suggest improvements: rebalancing when overloaded, better times for weak recurring meetings and agendas for meetings without one"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User whose schedule to optimize"),
		),
		mcp.WithNumber("days",
			mcp.Description("How many days ahead to consider (default 14)"),
		),
	)

	s.AddTool(optimizeScheduleTool, common.InstrumentedToolHandlerWithComponent("optimize_meeting_schedule", "optimizer", "optimize", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleOptimizeSchedule(ctx, request, sc)
		}))

	return nil
}

func handleOptimizeSchedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	days := DefaultOptimizeDays
	if v, ok := args["days"].(float64); ok && v > 0 {
		days = int(v)
	}

	now := time.Now().UTC()
	window := schedule.Interval{Start: now, End: now.AddDate(0, 0, days)}

	snap := sc.Store().Snapshot()
	engine := schedule.NewEngine(snap, now)

	recommendations, err := engine.OptimizeSchedule(ctx, userID, window)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) || errors.Is(err, schedule.ErrInvalidRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to optimize schedule: %w", err)
	}

	if metrics := sc.Metrics(); metrics != nil {
		for _, rec := range recommendations {
			metrics.RecordRecommendation(ctx, rec.Kind)
		}
	}

	if len(recommendations) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No changes recommended for %s; the schedule over the next %d days already looks balanced.", userID, days)), nil
	}

	jsonData, err := json.MarshalIndent(recommendations, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
