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

// RegisterPatternTools registers meeting pattern analysis tools with the MCP server
func RegisterPatternTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Analyze meeting patterns tool
	analyzePatternsTool := mcp.NewTool("analyze_meeting_patterns",
		mcp.WithDescription("Analyze one user's meeting habits over a past window: load, busiest weekday, peak hour, back-to-back runs, recurring share and rotation fairness"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("User to analyze"),
		),
		mcp.WithNumber("days",
			mcp.Description("How many days to look back from now (default 30)"),
		),
	)

	s.AddTool(analyzePatternsTool, common.InstrumentedToolHandlerWithComponent("analyze_meeting_patterns", "patterns", "analyze", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAnalyzePatterns(ctx, request, sc)
		}))

	return nil
}

func handleAnalyzePatterns(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	userID, ok := args["user_id"].(string)
	if !ok || userID == "" {
		return mcp.NewToolResultError("user_id is required"), nil
	}

	days := DefaultPatternDays
	if v, ok := args["days"].(float64); ok && v > 0 {
		days = int(v)
	}

	now := time.Now().UTC()
	window := schedule.Interval{Start: now.AddDate(0, 0, -days), End: now}

	snap := sc.Store().Snapshot()
	engine := schedule.NewEngine(snap, now)

	report, err := engine.AnalyzeMeetingPatterns(userID, window)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) || errors.Is(err, schedule.ErrInvalidRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to analyze meeting patterns: %w", err)
	}

	if report.TotalMeetings == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No meetings found for %s in the last %d days.", userID, days)), nil
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal pattern report: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
