package schedule_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/tools/batch"
	"github.com/teemow/meetfewer/internal/tools/common"
)

// RegisterMeetingTools registers the meeting creation tool with the MCP
// server. In read-only mode the tool is not registered at all, so clients
// never see a write surface they cannot use.
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if readOnly {
		return nil
	}

	createMeetingTool := mcp.NewTool("create_meeting",
		mcp.WithDescription("Create a meeting after checking every attendee's calendar; hard conflicts refuse the creation"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Meeting title"),
		),
		mcp.WithString("participant_ids",
			mcp.Required(),
			mcp.Description("Participant user IDs, as an array or a comma-separated string"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2025-01-06T14:00:00Z')"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("organizer",
			mcp.Description("User ID of the organizer; counted as an attendee"),
		),
		mcp.WithString("type",
			mcp.Description("Meeting type: 'standup', 'one_on_one', 'team', 'planning', 'review', 'all_hands', 'brainstorming', 'interview', or 'other'"),
		),
		mcp.WithString("agenda_items",
			mcp.Description("Agenda items as an array of strings"),
		),
		mcp.WithString("recurrence",
			mcp.Description("Recurrence: 'daily', 'weekly', 'bi_weekly', 'monthly', or an RRULE string like 'FREQ=WEEKLY;BYDAY=MO'"),
		),
	)

	s.AddTool(createMeetingTool, common.InstrumentedToolHandlerWithComponent(
		"create_meeting", "store", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateMeeting(ctx, request, sc)
		}))

	return nil
}

func handleCreateMeeting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	participantIDs, err := parseIDList(args["participant_ids"], "participant_ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start, err := parseTimeArg(args, "start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	durationMinutes, ok := args["duration_minutes"].(float64)
	if !ok || durationMinutes <= 0 {
		return mcp.NewToolResultError("duration_minutes is required and must be positive"), nil
	}

	meeting := schedule.Meeting{
		Title:           title,
		ParticipantIDs:  participantIDs,
		Start:           start,
		DurationMinutes: int(durationMinutes),
	}

	if organizer, ok := args["organizer"].(string); ok && organizer != "" {
		meeting.OwnerID = organizer
	}
	if meetingType, ok := args["type"].(string); ok && meetingType != "" {
		meeting.Type = schedule.MeetingType(meetingType)
	}
	if args["agenda_items"] != nil {
		items, err := batch.ParseStringOrArray(args["agenda_items"], "agenda_items")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		meeting.AgendaItems = items
	}
	if recurrence, ok := args["recurrence"].(string); ok && recurrence != "" {
		meeting.Recurrence = recurrence
	}

	snap := sc.Store().Snapshot()
	candidate := meeting.Interval()

	hard, soft, err := attendeeConflicts(snap, meeting, candidate)
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to check conflicts: %w", err)
	}
	if len(hard) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Cannot create meeting, hard conflicts found:\n%s\nPick another time, for example via find_optimal_slots.",
			strings.Join(hard, "\n"))), nil
	}

	created, err := sc.Store().CreateMeeting(meeting)
	if metrics := sc.Metrics(); metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordStoreOperation(ctx, "create", status)
	}
	if err != nil {
		if errors.Is(err, schedule.ErrUnknownUser) || errors.Is(err, schedule.ErrInvalidRange) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	// Record the first occurrence of a recurring series so the fairness
	// rotation has history to work from.
	if created.Recurring() {
		if err := sc.Store().AppendOccurrence(firstOccurrence(snap, created)); err != nil {
			return nil, fmt.Errorf("meeting %s created but occurrence not recorded: %w", created.ID, err)
		}
	}

	result := fmt.Sprintf("Successfully created meeting: %s\n", created.Title)
	result += fmt.Sprintf("ID: %s\n", created.ID)
	result += fmt.Sprintf("Start: %s\n", created.Start.Format(time.RFC3339))
	result += fmt.Sprintf("Duration: %d minutes\n", created.DurationMinutes)
	result += fmt.Sprintf("Participants: %d\n", len(created.ParticipantIDs))
	if created.Recurring() {
		result += fmt.Sprintf("Recurrence: %s\n", created.Recurrence)
	}
	if len(soft) > 0 {
		result += fmt.Sprintf("\nWarnings:\n%s\n", strings.Join(soft, "\n"))
	}

	return mcp.NewToolResultText(result), nil
}

// attendeeConflicts checks the candidate against every attendee's calendar
// and renders hard conflicts and milder warnings as display lines.
func attendeeConflicts(snap *schedule.Snapshot, m schedule.Meeting, candidate schedule.Interval) (hard, soft []string, err error) {
	seen := make(map[string]bool)
	attendees := m.ParticipantIDs
	if m.OwnerID != "" {
		attendees = append([]string{m.OwnerID}, attendees...)
	}

	for _, userID := range attendees {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		report, err := detectForUser(snap, userID, candidate)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range report.Conflicts {
			line := fmt.Sprintf("  - %s: %q (%s, %.0f minute overlap)", userID, c.Title, c.Severity, c.OverlapMinutes)
			if c.Severity == schedule.SeverityBuffer {
				line = fmt.Sprintf("  - %s: %q closer than the preferred buffer", userID, c.Title)
			}
			if c.Severity == schedule.SeverityHard {
				hard = append(hard, line)
			} else {
				soft = append(soft, line)
			}
		}
	}
	return hard, soft, nil
}

// firstOccurrence builds the rotation record for a just-created recurring
// meeting, rating the start for each attendee in their local time.
func firstOccurrence(snap *schedule.Snapshot, m schedule.Meeting) schedule.Occurrence {
	occ := schedule.Occurrence{
		SeriesID:    m.ID,
		MeetingID:   m.ID,
		Start:       m.Start,
		Convenience: make(map[string]float64),
	}
	ids := m.ParticipantIDs
	if m.OwnerID != "" {
		ids = append([]string{m.OwnerID}, ids...)
	}
	for _, id := range ids {
		u, err := snap.User(id)
		if err != nil {
			continue
		}
		occ.Convenience[id] = schedule.Convenience(u, m.Start.In(u.Location()))
	}
	return occ
}
