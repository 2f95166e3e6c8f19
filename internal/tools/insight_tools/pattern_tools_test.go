package insight_tools

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/teemow/meetfewer/internal/schedule"
)

// patternMeetings seeds alice with a recent week of meetings: two nearly
// adjacent reviews and one weekly sync inside the default lookback.
func patternMeetings(t *testing.T, now time.Time) string {
	t.Helper()
	return meetingsJSON(t, []schedule.Meeting{
		{
			ID:              "m1",
			Title:           "Design Review",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice", "bob"},
			Start:           dayAt(now, -2, 10, 0),
			DurationMinutes: 30,
		},
		{
			ID:              "m2",
			Title:           "Code Review",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice", "bob"},
			Start:           dayAt(now, -2, 10, 35),
			DurationMinutes: 30,
		},
		{
			ID:              "m3",
			Title:           "Weekly Sync",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice", "bob"},
			Start:           dayAt(now, -3, 14, 0),
			DurationMinutes: 60,
			Recurrence:      "weekly",
		},
	})
}

func TestHandleAnalyzePatterns_ReportsLoad(t *testing.T) {
	now := time.Now().UTC()
	sc := seededContext(t, testRoster, patternMeetings(t, now))

	request := toolRequest("analyze_meeting_patterns", map[string]interface{}{
		"user_id": "alice",
	})
	result, err := handleAnalyzePatterns(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAnalyzePatterns() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleAnalyzePatterns() returned error result: %s", resultText(t, result))
	}

	var report schedule.PatternReport
	if err := json.Unmarshal([]byte(resultText(t, result)), &report); err != nil {
		t.Fatalf("failed to decode pattern report: %v", err)
	}

	if report.UserID != "alice" {
		t.Errorf("UserID = %q, want alice", report.UserID)
	}
	if report.TotalMeetings != 3 {
		t.Errorf("TotalMeetings = %d, want 3", report.TotalMeetings)
	}
	if report.TotalMinutes != 120 {
		t.Errorf("TotalMinutes = %d, want 120", report.TotalMinutes)
	}
	if math.Abs(report.AverageDurationMinutes-40) > 0.01 {
		t.Errorf("AverageDurationMinutes = %.2f, want 40", report.AverageDurationMinutes)
	}
	if report.BackToBack != 1 {
		t.Errorf("BackToBack = %d, want 1 for the 5 minute gap", report.BackToBack)
	}
	if report.PeakHour != 10 {
		t.Errorf("PeakHour = %d, want 10", report.PeakHour)
	}
	if math.Abs(report.RecurringShare-1.0/3.0) > 0.01 {
		t.Errorf("RecurringShare = %.2f, want one third", report.RecurringShare)
	}
	if report.BusiestWeekday == "" {
		t.Error("BusiestWeekday is empty")
	}
	if report.FairnessScore <= 0 || report.FairnessScore > 10 {
		t.Errorf("FairnessScore = %.2f, want within (0, 10]", report.FairnessScore)
	}
}

func TestHandleAnalyzePatterns_NoMeetings(t *testing.T) {
	now := time.Now().UTC()
	sc := seededContext(t, testRoster, patternMeetings(t, now))

	request := toolRequest("analyze_meeting_patterns", map[string]interface{}{
		"user_id": "carol",
	})
	result, err := handleAnalyzePatterns(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAnalyzePatterns() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("handleAnalyzePatterns() returned error result: %s", resultText(t, result))
	}
	if text := resultText(t, result); !strings.Contains(text, "No meetings found for carol") {
		t.Errorf("result = %q, want a no-meetings note", text)
	}
}

func TestHandleAnalyzePatterns_DaysNarrowsWindow(t *testing.T) {
	now := time.Now().UTC()
	sc := seededContext(t, testRoster, patternMeetings(t, now))

	request := toolRequest("analyze_meeting_patterns", map[string]interface{}{
		"user_id": "alice",
		"days":    float64(1),
	})
	result, err := handleAnalyzePatterns(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAnalyzePatterns() error = %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "No meetings found for alice") {
		t.Errorf("result = %q, want a no-meetings note for the 1 day window", text)
	}
}

func TestHandleAnalyzePatterns_UnknownUser(t *testing.T) {
	sc := seededContext(t, testRoster, "")

	request := toolRequest("analyze_meeting_patterns", map[string]interface{}{
		"user_id": "ghost",
	})
	result, err := handleAnalyzePatterns(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAnalyzePatterns() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result for an unknown user")
	}
	if text := resultText(t, result); !strings.Contains(text, "ghost") {
		t.Errorf("error = %q, want the unknown user named", text)
	}
}

func TestHandleAnalyzePatterns_MissingUserID(t *testing.T) {
	sc := seededContext(t, testRoster, "")

	request := toolRequest("analyze_meeting_patterns", map[string]interface{}{})
	result, err := handleAnalyzePatterns(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAnalyzePatterns() error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result without user_id")
	}
}
