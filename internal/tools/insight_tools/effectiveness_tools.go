package insight_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/batch"
	"github.com/teemow/meetfewer/internal/tools/common"
)

// RegisterEffectivenessTools registers effectiveness scoring tools with the
// MCP server. In read-only mode scores are computed but not persisted.
func RegisterEffectivenessTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Score meeting effectiveness tool
	scoreEffectivenessTool := mcp.NewTool("score_meeting_effectiveness",
		mcp.WithDescription("Score meetings on a 0-10 scale from structural signals: agenda coverage, size and duration against the norms for the meeting type"),
		mcp.WithString("meeting_ids",
			mcp.Required(),
			mcp.Description("Meeting IDs as an array of strings or a comma-separated string"),
		),
	)

	s.AddTool(scoreEffectivenessTool, common.InstrumentedToolHandlerWithComponent("score_meeting_effectiveness", "effectiveness", "score", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScoreEffectiveness(ctx, request, sc, readOnly)
		}))

	return nil
}

func handleScoreEffectiveness(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, readOnly bool) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	meetingIDs, err := parseIDList(args["meeting_ids"], "meeting_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := sc.Store().Snapshot()

	results := batch.ProcessBatch(meetingIDs, func(meetingID string) (string, error) {
		m, err := snap.Meeting(meetingID)
		if err != nil {
			return "", err
		}

		score := schedule.ScoreEffectiveness(m)

		if !readOnly {
			err := sc.Store().SetEffectiveness(meetingID, score.Score)
			if metrics := sc.Metrics(); metrics != nil {
				status := "success"
				if err != nil {
					status = "error"
				}
				metrics.RecordStoreOperation(ctx, "score", status)
			}
			if err != nil {
				return "", fmt.Errorf("scored %.1f but could not persist: %w", score.Score, err)
			}
		}

		jsonBytes, err := json.Marshal(score)
		if err != nil {
			return "", fmt.Errorf("failed to marshal score: %w", err)
		}
		return string(jsonBytes), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}
