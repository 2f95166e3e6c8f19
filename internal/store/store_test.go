package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetfewer/internal/schedule"
)

const usersFixture = `[
  {
    "id": "alice",
    "name": "Alice",
    "email": "alice@example.com",
    "preferences": {
      "timezone": "America/New_York",
      "work_start_minute": 540,
      "work_end_minute": 1020
    }
  },
  {
    "id": "bob",
    "name": "Bob",
    "email": "bob@example.com",
    "preferences": {
      "timezone": "Europe/London"
    }
  }
]
`

const meetingsFixture = `[
  {
    "id": "m1",
    "title": "Weekly sync",
    "owner_id": "alice",
    "participant_ids": ["alice", "bob"],
    "start": "2026-03-02T15:00:00Z",
    "duration_minutes": 30,
    "type": "team",
    "recurrence": "weekly"
  }
]
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, usersFile), []byte(usersFixture), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, meetingsFile), []byte(meetingsFixture), 0o600))
	return dir
}

func TestOpen_EmptyDirectory(t *testing.T) {
	s, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)

	users, meetings := s.Counts()
	assert.Equal(t, 0, users)
	assert.Equal(t, 0, meetings)
}

func TestOpen_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := Open(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpen_LoadsFixtures(t *testing.T) {
	s, err := Open(context.Background(), writeFixtures(t))
	require.NoError(t, err)

	users, meetings := s.Counts()
	assert.Equal(t, 2, users)
	assert.Equal(t, 1, meetings)

	snap := s.Snapshot()
	alice, err := snap.User("alice")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", alice.Preferences.Timezone)
	assert.Equal(t, 540, alice.WorkStart())

	m, err := snap.Meeting("m1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly sync", m.Title)
	assert.True(t, m.Recurring())
	assert.Equal(t, 30*time.Minute, m.Duration())
}

func TestOpen_RejectsBadData(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "unknown timezone",
			file:    usersFile,
			content: `[{"id": "x", "preferences": {"timezone": "Mars/Olympus"}}]`,
		},
		{
			name:    "user without ID",
			file:    usersFile,
			content: `[{"name": "nameless", "preferences": {"timezone": "UTC"}}]`,
		},
		{
			name:    "duplicate user",
			file:    usersFile,
			content: `[{"id": "x", "preferences": {}}, {"id": "x", "preferences": {}}]`,
		},
		{
			name:    "inverted working hours",
			file:    usersFile,
			content: `[{"id": "x", "preferences": {"work_start_minute": 1020, "work_end_minute": 540}}]`,
		},
		{
			name:    "meeting with zero duration",
			file:    meetingsFile,
			content: `[{"id": "m", "title": "t", "participant_ids": ["x"], "start": "2026-03-02T15:00:00Z", "duration_minutes": 0}]`,
		},
		{
			name:    "meeting with bad recurrence",
			file:    meetingsFile,
			content: `[{"id": "m", "title": "t", "participant_ids": ["x"], "start": "2026-03-02T15:00:00Z", "duration_minutes": 30, "recurrence": "FREQ=SOMETIMES"}]`,
		},
		{
			name:    "malformed JSON",
			file:    meetingsFile,
			content: `{not json`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0o600))

			_, err := Open(context.Background(), dir)
			assert.Error(t, err)
		})
	}
}

func TestSnapshot_Isolated(t *testing.T) {
	s, err := Open(context.Background(), writeFixtures(t))
	require.NoError(t, err)

	snap := s.Snapshot()

	_, err = s.CreateMeeting(schedule.Meeting{
		Title:           "Added later",
		OwnerID:         "alice",
		ParticipantIDs:  []string{"alice"},
		Start:           time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)

	assert.Len(t, snap.Meetings, 1, "snapshot taken before the write must not see it")
	assert.Len(t, s.Snapshot().Meetings, 2)
}

func TestCreateMeeting_PersistsAcrossReopen(t *testing.T) {
	dir := writeFixtures(t)

	s, err := Open(context.Background(), dir)
	require.NoError(t, err)

	created, err := s.CreateMeeting(schedule.Meeting{
		Title:           "Design review",
		OwnerID:         "bob",
		ParticipantIDs:  []string{"alice", "bob"},
		Start:           time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
		Type:            schedule.TypeReview,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	reopened, err := Open(context.Background(), dir)
	require.NoError(t, err)

	m, err := reopened.Snapshot().Meeting(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design review", m.Title)
	assert.Equal(t, schedule.TypeReview, m.Type)
}

func TestCreateMeeting_Validation(t *testing.T) {
	s, err := Open(context.Background(), writeFixtures(t))
	require.NoError(t, err)

	start := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		meeting schedule.Meeting
		wantErr error
	}{
		{
			name: "unknown participant",
			meeting: schedule.Meeting{
				Title:           "t",
				ParticipantIDs:  []string{"alice", "mallory"},
				Start:           start,
				DurationMinutes: 30,
			},
			wantErr: schedule.ErrUnknownUser,
		},
		{
			name: "unknown owner",
			meeting: schedule.Meeting{
				Title:           "t",
				OwnerID:         "mallory",
				ParticipantIDs:  []string{"alice"},
				Start:           start,
				DurationMinutes: 30,
			},
			wantErr: schedule.ErrUnknownUser,
		},
		{
			name: "zero duration",
			meeting: schedule.Meeting{
				Title:          "t",
				ParticipantIDs: []string{"alice"},
				Start:          start,
			},
			wantErr: schedule.ErrInvalidRange,
		},
		{
			name: "missing start",
			meeting: schedule.Meeting{
				Title:           "t",
				ParticipantIDs:  []string{"alice"},
				DurationMinutes: 30,
			},
			wantErr: schedule.ErrInvalidRange,
		},
		{
			name: "no participants",
			meeting: schedule.Meeting{
				Title:           "t",
				Start:           start,
				DurationMinutes: 30,
			},
			wantErr: schedule.ErrInvalidRange,
		},
		{
			name: "bad recurrence",
			meeting: schedule.Meeting{
				Title:           "t",
				ParticipantIDs:  []string{"alice"},
				Start:           start,
				DurationMinutes: 30,
				Recurrence:      "FREQ=SOMETIMES",
			},
			wantErr: schedule.ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateMeeting(tt.meeting)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, meetings := s.Counts()
	assert.Equal(t, 1, meetings, "rejected meetings must not be stored")
}

func TestSetEffectiveness(t *testing.T) {
	dir := writeFixtures(t)
	s, err := Open(context.Background(), dir)
	require.NoError(t, err)

	require.NoError(t, s.SetEffectiveness("m1", 7.5))

	err = s.SetEffectiveness("missing", 5.0)
	assert.ErrorIs(t, err, schedule.ErrMeetingNotFound)

	reopened, err := Open(context.Background(), dir)
	require.NoError(t, err)
	m, err := reopened.Snapshot().Meeting("m1")
	require.NoError(t, err)
	require.NotNil(t, m.Effectiveness)
	assert.Equal(t, 7.5, *m.Effectiveness)
}

func TestAppendOccurrence_RoundTrip(t *testing.T) {
	dir := writeFixtures(t)
	s, err := Open(context.Background(), dir)
	require.NoError(t, err)

	occ := schedule.Occurrence{
		SeriesID:  "m1",
		MeetingID: "m1",
		Start:     time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		Convenience: map[string]float64{
			"alice": 8.0,
			"bob":   3.5,
		},
	}
	require.NoError(t, s.AppendOccurrence(occ))

	err = s.AppendOccurrence(schedule.Occurrence{})
	assert.ErrorIs(t, err, schedule.ErrInvalidRange)

	reopened, err := Open(context.Background(), dir)
	require.NoError(t, err)

	history := reopened.History("m1")
	require.Len(t, history, 1)
	assert.Equal(t, 3.5, history[0].Convenience["bob"])
	assert.Empty(t, reopened.History("unknown-series"))
}

func TestUsers_Sorted(t *testing.T) {
	s, err := Open(context.Background(), writeFixtures(t))
	require.NoError(t, err)

	users := s.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].ID)
	assert.Equal(t, "bob", users[1].ID)
}

func TestDefaultDir_NotEmpty(t *testing.T) {
	assert.NotEmpty(t, DefaultDir())
	assert.Contains(t, DefaultDir(), "meetfewer")
}
