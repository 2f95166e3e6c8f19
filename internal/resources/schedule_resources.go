package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/recurrence"
	"github.com/teemow/meetfewer/internal/schedule"
	"github.com/teemow/meetfewer/internal/server"
)

// upcomingDays is the horizon of the upcoming meetings resource.
const upcomingDays = 7

// RegisterScheduleResources registers read-only calendar resources.
// These expose the roster and the near-term schedule without requiring a
// tool call, so clients can ground their requests in current state.
func RegisterScheduleResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register roster resource
	rosterResource := mcp.NewResource(
		"schedule://roster",
		"Scheduling Roster",
		mcp.WithResourceDescription("All known users with their time zones and availability preferences"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(rosterResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleRoster(ctx, request, sc)
	})

	// Register upcoming meetings resource
	upcomingResource := mcp.NewResource(
		"schedule://meetings/upcoming",
		"Upcoming Meetings",
		mcp.WithResourceDescription("Meetings starting within the next 7 days, recurring series expanded"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(upcomingResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUpcomingMeetings(ctx, request, sc)
	})

	return nil
}

// handleRoster returns every known user with the preferences the engine
// schedules around.
func handleRoster(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	snap := sc.Store().Snapshot()

	ids := make([]string, 0, len(snap.Users))
	for id := range snap.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	users := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		u := snap.Users[id]
		entry := map[string]interface{}{
			"id":             u.ID,
			"timezone":       u.Location().String(),
			"working_hours":  fmt.Sprintf("%s-%s local", minuteClock(u.WorkStart()), minuteClock(u.WorkEnd())),
			"buffer_minutes": int(u.Buffer().Minutes()),
		}
		if u.Name != "" {
			entry["name"] = u.Name
		}
		if u.Email != "" {
			entry["email"] = u.Email
		}
		if u.Role != "" {
			entry["role"] = u.Role
		}
		if n := len(u.Preferences.MeetingFreeBlocks); n > 0 {
			entry["meeting_free_blocks"] = n
		}
		if len(u.Preferences.ProductiveHours) > 0 {
			entry["productive_hours"] = u.Preferences.ProductiveHours
		}
		users = append(users, entry)
	}

	userCount, meetingCount := sc.Store().Counts()
	rosterData := map[string]interface{}{
		"users":          users,
		"total_users":    userCount,
		"total_meetings": meetingCount,
		"description":    "Scheduling roster with per-user availability preferences",
	}

	jsonData, err := json.MarshalIndent(rosterData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal roster data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleUpcomingMeetings returns all meetings starting inside the horizon,
// with one entry per occurrence of a recurring series.
func handleUpcomingMeetings(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	now := time.Now().UTC()
	window := schedule.Interval{Start: now, End: now.AddDate(0, 0, upcomingDays)}
	snap := sc.Store().Snapshot()

	type upcoming struct {
		start time.Time
		entry map[string]interface{}
	}
	var entries []upcoming

	for _, m := range snap.Meetings {
		var starts []time.Time
		if m.Recurring() {
			expanded, err := recurrence.Expand(m.Recurrence, m.Start, window.Start, window.End, recurrence.DefaultOccurrenceLimit)
			if err != nil {
				return nil, fmt.Errorf("failed to expand meeting %q: %w", m.ID, err)
			}
			starts = expanded
		} else if window.Contains(m.Start) {
			starts = []time.Time{m.Start}
		}

		for _, start := range starts {
			if !window.Contains(start) {
				continue
			}
			entry := map[string]interface{}{
				"id":               m.ID,
				"title":            m.Title,
				"start":            start.Format(time.RFC3339),
				"duration_minutes": m.DurationMinutes,
				"owner_id":         m.OwnerID,
				"participants":     m.ParticipantIDs,
				"recurring":        m.Recurring(),
			}
			if m.Type != "" {
				entry["type"] = string(m.Type)
			}
			entries = append(entries, upcoming{start: start, entry: entry})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].start.Equal(entries[j].start) {
			return entries[i].entry["id"].(string) < entries[j].entry["id"].(string)
		}
		return entries[i].start.Before(entries[j].start)
	})

	meetings := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		meetings = append(meetings, e.entry)
	}

	upcomingData := map[string]interface{}{
		"window": map[string]interface{}{
			"start": window.Start.Format(time.RFC3339),
			"end":   window.End.Format(time.RFC3339),
		},
		"count":       len(meetings),
		"meetings":    meetings,
		"description": "Meetings starting within the next 7 days",
	}

	jsonData, err := json.MarshalIndent(upcomingData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upcoming meetings: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// minuteClock renders minutes from midnight as a wall clock time.
func minuteClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
