package schedule

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeSchedule_RescheduleAndAgenda(t *testing.T) {
	users := []User{
		testUser("alice", "America/New_York"),
		testUser("bob", "Europe/London"),
	}
	meetings := []Meeting{
		{
			ID:              "weekly-sync",
			Title:           "Weekly sync",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice", "bob"},
			Start:           utc(2026, 3, 2, 21, 0),
			DurationMinutes: 60,
			Type:            TypeTeam,
			Recurrence:      "weekly",
			Effectiveness:   floatPtr(2.5),
		},
		{
			ID:              "healthy",
			Title:           "Healthy planning",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice", "bob"},
			Start:           utc(2026, 3, 3, 15, 0),
			DurationMinutes: 60,
			Type:            TypePlanning,
			Recurrence:      "weekly",
			Effectiveness:   floatPtr(8.0),
			AgendaItems:     []string{"roadmap"},
		},
	}
	engine := NewEngine(testSnapshot(users, meetings), utc(2026, 3, 1, 0, 0))

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 7, 0, 0)}
	recs, err := engine.OptimizeSchedule(context.Background(), "alice", window)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	var kinds []string
	for _, r := range recs {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []string{RecommendReschedule, RecommendAgenda}, kinds)

	reschedule := recs[0]
	assert.Equal(t, "weekly-sync", reschedule.MeetingID)
	assert.NotEmpty(t, reschedule.Proposed, "a reschedule carries alternative slots")
	assert.LessOrEqual(t, len(reschedule.Proposed), 3)
	assert.Contains(t, reschedule.Detail, "2.5")

	agenda := recs[1]
	assert.Equal(t, "weekly-sync", agenda.MeetingID, "the healthy meeting already has an agenda")
	assert.Equal(t, 3, agenda.Priority)
}

func TestOptimizeSchedule_FlagsOverloadedUser(t *testing.T) {
	ids := []string{"alice", "bob", "carol", "dave", "eve"}
	var users []User
	for _, id := range ids {
		users = append(users, testUser(id, "UTC"))
	}

	meetings := []Meeting{{
		// Connects the whole team to alice.
		ID:              "team",
		Title:           "Team meeting",
		OwnerID:         "alice",
		ParticipantIDs:  ids,
		Start:           utc(2026, 3, 2, 15, 0),
		DurationMinutes: 60,
		Type:            TypeTeam,
		AgendaItems:     []string{"updates"},
	}}
	for i := 0; i < 9; i++ {
		meetings = append(meetings, Meeting{
			ID:              fmt.Sprintf("solo-%d", i),
			Title:           fmt.Sprintf("Solo %d", i),
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           utc(2026, 3, 3+i/5, 9+i%5, 0),
			DurationMinutes: 60,
		})
	}
	engine := NewEngine(testSnapshot(users, meetings), utc(2026, 3, 1, 0, 0))

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 7, 0, 0)}
	recs, err := engine.OptimizeSchedule(context.Background(), "alice", window)
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	assert.Equal(t, RecommendRebalance, recs[0].Kind, "the workload flag outranks everything")
	assert.Equal(t, 1, recs[0].Priority)
	assert.Contains(t, recs[0].Detail, "10 meetings")
}

func TestOptimizeSchedule_QuietCalendar(t *testing.T) {
	users := []User{testUser("alice", "UTC")}
	engine := NewEngine(testSnapshot(users, nil), utc(2026, 3, 1, 0, 0))

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 7, 0, 0)}
	recs, err := engine.OptimizeSchedule(context.Background(), "alice", window)
	require.NoError(t, err)
	assert.Empty(t, recs, "nothing to improve on an empty calendar")
}

func TestOptimizeSchedule_Validation(t *testing.T) {
	engine := NewEngine(testSnapshot([]User{testUser("alice", "UTC")}, nil), utc(2026, 3, 1, 0, 0))
	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 7, 0, 0)}

	_, err := engine.OptimizeSchedule(context.Background(), "ghost", window)
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = engine.OptimizeSchedule(context.Background(), "alice", Interval{Start: window.End, End: window.Start})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOptimizeSchedule_CancelledContext(t *testing.T) {
	users := []User{testUser("alice", "UTC"), testUser("bob", "UTC")}
	meetings := []Meeting{{
		ID:              "weekly",
		Title:           "Weekly",
		OwnerID:         "alice",
		ParticipantIDs:  []string{"alice", "bob"},
		Start:           utc(2026, 3, 2, 15, 0),
		DurationMinutes: 60,
		Recurrence:      "weekly",
		Effectiveness:   floatPtr(1.0),
	}}
	engine := NewEngine(testSnapshot(users, meetings), utc(2026, 3, 1, 0, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.OptimizeSchedule(ctx, "alice", Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 7, 0, 0)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEffectivenessOf(t *testing.T) {
	stored := Meeting{ID: "m", DurationMinutes: 15, Type: TypeStandup, Effectiveness: floatPtr(1.5)}
	assert.InDelta(t, 1.5, effectivenessOf(stored), 1e-9, "a stored score wins over the computed one")

	computed := Meeting{ID: "m", ParticipantIDs: []string{"a", "b"}, DurationMinutes: 15, Type: TypeStandup}
	assert.InDelta(t, ScoreEffectiveness(computed).Score, effectivenessOf(computed), 1e-9)
}
