package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticProductivity_DefaultBands(t *testing.T) {
	model := NewPatternModel(testSnapshot(nil, nil), utc(2026, 3, 10, 0, 0))
	alice := testUser("alice", "UTC")

	tests := []struct {
		hour int
		want float64
	}{
		{hour: 7, want: 5.0},  // early morning, not in the defaults
		{hour: 10, want: 9.5}, // morning
		{hour: 13, want: 8.5}, // afternoon
		{hour: 16, want: 5.0}, // late afternoon, not in the defaults
		{hour: 19, want: 5.0}, // evening, not in the defaults
		{hour: 23, want: 5.0}, // outside every band
	}

	for _, tt := range tests {
		local := utc(2026, 3, 2, tt.hour, 0)
		assert.InDelta(t, tt.want, model.Productivity(alice, local), 1e-9, "hour %d", tt.hour)
	}
}

func TestStaticProductivity_DeclaredBands(t *testing.T) {
	model := NewPatternModel(testSnapshot(nil, nil), utc(2026, 3, 10, 0, 0))

	owl := testUser("owl", "UTC")
	owl.Preferences.ProductiveHours = []string{BandEvening}

	assert.InDelta(t, 7.0, model.Productivity(owl, utc(2026, 3, 2, 19, 0)), 1e-9)
	assert.InDelta(t, 5.0, model.Productivity(owl, utc(2026, 3, 2, 10, 0)), 1e-9,
		"morning falls back to baseline when only evening is declared")

	lark := testUser("lark", "UTC")
	lark.Preferences.ProductiveHours = []string{BandEarlyMorning, BandMorning}

	assert.InDelta(t, 9.0, model.Productivity(lark, utc(2026, 3, 2, 7, 0)), 1e-9)
	assert.InDelta(t, 9.5, model.Productivity(lark, utc(2026, 3, 2, 11, 0)), 1e-9)
}

func TestProductivity_BlendsMeetingHistory(t *testing.T) {
	now := utc(2026, 3, 10, 0, 0)
	alice := testUser("alice", "UTC")

	// One poorly rated meeting at 10am within the lookback drags the
	// morning band down to the midpoint of static and history.
	snap := testSnapshot([]User{alice}, []Meeting{{
		ID:              "retro",
		OwnerID:         "alice",
		ParticipantIDs:  []string{"alice"},
		Start:           utc(2026, 3, 2, 10, 0),
		DurationMinutes: 60,
		Effectiveness:   floatPtr(2.0),
	}})
	model := NewPatternModel(snap, now)

	got := model.Productivity(alice, utc(2026, 3, 16, 10, 0))
	assert.InDelta(t, 0.5*9.5+0.5*2.0, got, 1e-9)

	// Afternoons carry no history and keep the static value.
	assert.InDelta(t, 8.5, model.Productivity(alice, utc(2026, 3, 16, 13, 0)), 1e-9)
}

func TestProductivity_IgnoresStaleAndUnscoredHistory(t *testing.T) {
	now := utc(2026, 3, 10, 0, 0)
	alice := testUser("alice", "UTC")

	snap := testSnapshot([]User{alice}, []Meeting{
		{
			ID:              "ancient",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           now.Add(-40 * 24 * time.Hour),
			DurationMinutes: 60,
			Effectiveness:   floatPtr(1.0),
		},
		{
			ID:              "unscored",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           utc(2026, 3, 2, 10, 0),
			DurationMinutes: 60,
		},
		{
			ID:              "future",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           now.Add(24 * time.Hour),
			DurationMinutes: 60,
			Effectiveness:   floatPtr(1.0),
		},
	})
	model := NewPatternModel(snap, now)

	assert.InDelta(t, 9.5, model.Productivity(alice, utc(2026, 3, 16, 10, 0)), 1e-9,
		"stale, unscored, and future meetings contribute no history")
}

func TestHistoricalScore_RecentSamplesWeighMore(t *testing.T) {
	now := utc(2026, 3, 30, 10, 0)
	alice := testUser("alice", "UTC")

	// Two morning meetings: a well rated one four weeks back and a poorly
	// rated one from yesterday.
	snap := testSnapshot([]User{alice}, []Meeting{
		{
			ID:              "old-good",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           utc(2026, 3, 2, 10, 0),
			DurationMinutes: 60,
			Effectiveness:   floatPtr(9.0),
		},
		{
			ID:              "fresh-bad",
			OwnerID:         "alice",
			ParticipantIDs:  []string{"alice"},
			Start:           utc(2026, 3, 29, 10, 0),
			DurationMinutes: 60,
			Effectiveness:   floatPtr(3.0),
		},
	})
	model := NewPatternModel(snap, now)

	score, ok := model.historicalScore("alice", 10)
	assert.True(t, ok)
	assert.Less(t, score, 6.0, "the fresh sample outweighs the old one")
	assert.Greater(t, score, 3.0)
}

func TestInMeetingFreeBlock(t *testing.T) {
	model := NewPatternModel(testSnapshot(nil, nil), utc(2026, 3, 10, 0, 0))

	alice := testUser("alice", "UTC")
	alice.Preferences.MeetingFreeBlocks = []FreeBlock{
		{StartMinute: 12 * 60, EndMinute: 13 * 60, Label: "lunch"},
		{StartMinute: 15 * 60, EndMinute: 16 * 60, Days: []time.Weekday{time.Friday}, Label: "focus"},
	}

	tests := []struct {
		name  string
		local time.Time
		d     time.Duration
		want  bool
	}{
		{
			name:  "inside lunch",
			local: utc(2026, 3, 2, 12, 30),
			d:     30 * time.Minute,
			want:  true,
		},
		{
			name:  "spills into lunch",
			local: utc(2026, 3, 2, 11, 45),
			d:     30 * time.Minute,
			want:  true,
		},
		{
			name:  "ends at lunch start",
			local: utc(2026, 3, 2, 11, 30),
			d:     30 * time.Minute,
			want:  false,
		},
		{
			name:  "friday focus block on friday",
			local: utc(2026, 3, 6, 15, 15),
			d:     30 * time.Minute,
			want:  true,
		},
		{
			name:  "friday focus block on monday",
			local: utc(2026, 3, 2, 15, 15),
			d:     30 * time.Minute,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.InMeetingFreeBlock(alice, tt.local, tt.d))
		})
	}
}
