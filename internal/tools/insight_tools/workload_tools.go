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

// RegisterWorkloadTools registers workload balance tools with the MCP server
func RegisterWorkloadTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Calculate workload balance tool
	workloadBalanceTool := mcp.NewTool("calculate_workload_balance",
		mcp.WithDescription("Compare meeting load across a team and flag members whose load sits more than 1.5 standard deviations from the mean. Defaults to the next 7 days when no range is given"),
		mcp.WithString("user_ids",
			mcp.Required(),
			mcp.Description("Team member IDs as an array of strings or a comma-separated string"),
		),
		mcp.WithString("range_start",
			mcp.Description("Period start in RFC3339 format (default now)"),
		),
		mcp.WithString("range_end",
			mcp.Description("Period end in RFC3339 format (default range_start plus 7 days)"),
		),
	)

	s.AddTool(workloadBalanceTool, common.InstrumentedToolHandlerWithComponent("calculate_workload_balance", "workload", "balance", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWorkloadBalance(ctx, request, sc)
		}))

	return nil
}

func handleWorkloadBalance(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	memberIDs, err := parseIDList(args["user_ids"], "user_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now().UTC()
	period, err := analysisWindow(args, now, DefaultWorkloadDays)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := sc.Store().Snapshot()
	engine := schedule.NewEngine(snap, now)

	report, err := engine.CalculateWorkloadBalance(memberIDs, period)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) || errors.Is(err, schedule.ErrInvalidRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to calculate workload balance: %w", err)
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workload report: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
