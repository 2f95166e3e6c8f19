package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAvailabilityIndex_Validation(t *testing.T) {
	snap := testSnapshot([]User{testUser("alice", "UTC")}, nil)
	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 3, 0, 0)}

	_, err := BuildAvailabilityIndex(snap, []string{"alice", "ghost"}, window)
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, err = BuildAvailabilityIndex(snap, []string{"alice"}, Interval{Start: window.End, End: window.Start})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestAvailabilityIndex_BusySortedAndWindowed(t *testing.T) {
	meetings := []Meeting{
		{ID: "late", Title: "late", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 15, 0), DurationMinutes: 30},
		{ID: "early", Title: "early", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 9, 0), DurationMinutes: 60},
		{ID: "outside", Title: "outside", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 5, 9, 0), DurationMinutes: 60},
		{ID: "other-user", Title: "other", ParticipantIDs: []string{"bob"}, Start: utc(2026, 3, 2, 9, 0), DurationMinutes: 60},
	}
	snap := testSnapshot([]User{testUser("alice", "UTC"), testUser("bob", "UTC")}, meetings)

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 3, 0, 0)}
	ix, err := BuildAvailabilityIndex(snap, []string{"alice"}, window)
	require.NoError(t, err)

	busy, err := ix.Busy("alice")
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.Equal(t, "early", busy[0].MeetingID)
	assert.Equal(t, "late", busy[1].MeetingID)

	_, err = ix.Busy("bob")
	assert.ErrorIs(t, err, ErrUnknownUser, "bob was not part of the build")
}

func TestAvailabilityIndex_ExpandsRecurrence(t *testing.T) {
	meetings := []Meeting{
		{
			ID:              "standup",
			Title:           "Daily standup",
			ParticipantIDs:  []string{"alice"},
			Start:           utc(2026, 3, 2, 15, 0),
			DurationMinutes: 15,
			Recurrence:      "daily",
		},
	}
	snap := testSnapshot([]User{testUser("alice", "UTC")}, meetings)

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 6, 0, 0)}
	ix, err := BuildAvailabilityIndex(snap, []string{"alice"}, window)
	require.NoError(t, err)

	busy, err := ix.Busy("alice")
	require.NoError(t, err)
	require.Len(t, busy, 4, "one occurrence per day inside the window")
	for i, b := range busy {
		assert.Equal(t, utc(2026, 3, 2+i, 15, 0), b.Start)
		assert.Equal(t, "standup", b.MeetingID)
	}
}

func TestAvailabilityIndex_OccurrenceTouchingWindowEndExcluded(t *testing.T) {
	meetings := []Meeting{
		{ID: "m", Title: "t", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 12, 0), DurationMinutes: 30},
	}
	snap := testSnapshot([]User{testUser("alice", "UTC")}, meetings)

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 2, 12, 0)}
	ix, err := BuildAvailabilityIndex(snap, []string{"alice"}, window)
	require.NoError(t, err)

	busy, err := ix.Busy("alice")
	require.NoError(t, err)
	assert.Empty(t, busy, "a meeting starting at the window end does not block it")
}

func TestAvailabilityIndex_Overlapping(t *testing.T) {
	meetings := []Meeting{
		{ID: "a", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 9, 0), DurationMinutes: 60},
		{ID: "b", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 11, 0), DurationMinutes: 60},
		{ID: "c", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 14, 0), DurationMinutes: 60},
	}
	snap := testSnapshot([]User{testUser("alice", "UTC")}, meetings)

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 3, 0, 0)}
	ix, err := BuildAvailabilityIndex(snap, []string{"alice"}, window)
	require.NoError(t, err)

	hits, err := ix.Overlapping("alice", Interval{Start: utc(2026, 3, 2, 9, 30), End: utc(2026, 3, 2, 11, 30)})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].MeetingID)
	assert.Equal(t, "b", hits[1].MeetingID)

	none, err := ix.Overlapping("alice", Interval{Start: utc(2026, 3, 2, 10, 0), End: utc(2026, 3, 2, 11, 0)})
	require.NoError(t, err)
	assert.Empty(t, none, "the gap between meetings is free")
}

func TestAvailabilityIndex_Nearby(t *testing.T) {
	meetings := []Meeting{
		{ID: "before", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 9, 0), DurationMinutes: 60},
		{ID: "after", ParticipantIDs: []string{"alice"}, Start: utc(2026, 3, 2, 11, 40), DurationMinutes: 30},
	}
	snap := testSnapshot([]User{testUser("alice", "UTC")}, meetings)

	window := Interval{Start: utc(2026, 3, 2, 0, 0), End: utc(2026, 3, 3, 0, 0)}
	ix, err := BuildAvailabilityIndex(snap, []string{"alice"}, window)
	require.NoError(t, err)

	// Candidate sits 10 minutes after one meeting and 10 minutes before the
	// next; both are within a 15-minute buffer distance.
	candidate := Interval{Start: utc(2026, 3, 2, 10, 10), End: utc(2026, 3, 2, 11, 30)}
	near, err := ix.Nearby("alice", candidate, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, near, 2)
	assert.Equal(t, "before", near[0].MeetingID)
	assert.Equal(t, "after", near[1].MeetingID)

	// With a 5-minute distance neither neighbor is close enough.
	near, err = ix.Nearby("alice", candidate, 5*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, near)
}
