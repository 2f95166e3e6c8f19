package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreEffectiveness(t *testing.T) {
	tests := []struct {
		name       string
		meeting    Meeting
		wantScore  float64
		wantRating string
	}{
		{
			name: "crisp standup with agenda",
			meeting: Meeting{
				ID:              "m1",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob", "carol"},
				DurationMinutes: 15,
				Type:            TypeStandup,
				AgendaItems:     []string{"yesterday", "today", "blockers"},
			},
			wantScore:  10.0,
			wantRating: ImpactExcellent,
		},
		{
			name: "hour-long standup without agenda",
			meeting: Meeting{
				ID:              "m2",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob", "carol"},
				DurationMinutes: 60,
				Type:            TypeStandup,
			},
			wantScore:  3.0,
			wantRating: ImpactPoor,
		},
		{
			name: "one on one at its natural length",
			meeting: Meeting{
				ID:              "m3",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob"},
				DurationMinutes: 30,
				Type:            TypeOneOnOne,
				AgendaItems:     []string{"growth"},
			},
			wantScore:  10.0,
			wantRating: ImpactExcellent,
		},
		{
			name: "crowded one on one",
			meeting: Meeting{
				ID:              "m4",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob", "carol"},
				DurationMinutes: 30,
				Type:            TypeOneOnOne,
			},
			wantScore:  6.5,
			wantRating: ImpactGood,
		},
		{
			name: "undersized planning session",
			meeting: Meeting{
				ID:              "m5",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice"},
				DurationMinutes: 60,
				Type:            TypePlanning,
			},
			wantScore:  5.0,
			wantRating: ImpactFair,
		},
		{
			name: "untyped meeting uses the generic profile",
			meeting: Meeting{
				ID:              "m6",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob"},
				DurationMinutes: 30,
				AgendaItems:     []string{"topic"},
			},
			wantScore:  10.0,
			wantRating: ImpactExcellent,
		},
		{
			name: "slightly long review",
			meeting: Meeting{
				ID:              "m7",
				OwnerID:         "alice",
				ParticipantIDs:  []string{"alice", "bob"},
				DurationMinutes: 60,
				Type:            TypeReview,
				AgendaItems:     []string{"demo"},
			},
			// Deviation 15/45 from the expected 45 minutes costs a third of
			// the duration points.
			wantScore:  10.0 - 4.0/3.0,
			wantRating: ImpactExcellent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreEffectiveness(tt.meeting)
			assert.Equal(t, tt.meeting.ID, got.MeetingID)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantRating, got.Rating)
			assert.NotEmpty(t, got.Factors)
		})
	}
}

func TestScoreEffectiveness_ShortStandupBeatsBloatedOne(t *testing.T) {
	crisp := ScoreEffectiveness(Meeting{
		ID:              "crisp",
		ParticipantIDs:  []string{"a", "b", "c"},
		DurationMinutes: 15,
		Type:            TypeStandup,
		AgendaItems:     []string{"updates"},
	})
	bloated := ScoreEffectiveness(Meeting{
		ID:              "bloated",
		ParticipantIDs:  []string{"a", "b", "c"},
		DurationMinutes: 60,
		Type:            TypeStandup,
	})

	assert.Greater(t, crisp.Score, bloated.Score)
}

func TestScoreEffectiveness_AgendaFactorWording(t *testing.T) {
	with := ScoreEffectiveness(Meeting{
		ID:              "with",
		ParticipantIDs:  []string{"a", "b"},
		DurationMinutes: 30,
		AgendaItems:     []string{"one"},
	})
	assert.Contains(t, with.Factors, "agenda prepared")

	without := ScoreEffectiveness(Meeting{
		ID:              "without",
		ParticipantIDs:  []string{"a", "b"},
		DurationMinutes: 30,
	})
	assert.Contains(t, without.Factors, "no agenda")
}

func TestDurationFitScore(t *testing.T) {
	assert.InDelta(t, 4.0, durationFitScore(30, 30), 1e-9)
	assert.InDelta(t, 2.0, durationFitScore(45, 30), 1e-9)
	assert.InDelta(t, 2.0, durationFitScore(15, 30), 1e-9)
	assert.Zero(t, durationFitScore(60, 30), "a full multiple off earns nothing")
	assert.Zero(t, durationFitScore(90, 30))
	assert.Zero(t, durationFitScore(0, 30))
}

func TestParticipantFitScore(t *testing.T) {
	profile := typeProfiles[TypeTeam] // 3 to 10 people

	assert.InDelta(t, 3.0, participantFitScore(3, profile), 1e-9)
	assert.InDelta(t, 3.0, participantFitScore(10, profile), 1e-9)
	assert.InDelta(t, 2.0, participantFitScore(2, profile), 1e-9, "one short costs a point")
	assert.InDelta(t, 2.5, participantFitScore(11, profile), 1e-9, "one extra costs half a point")

	unbounded := typeProfiles[TypeAllHands]
	assert.InDelta(t, 3.0, participantFitScore(200, unbounded), 1e-9, "all hands has no upper bound")
}

func TestParticipantCount(t *testing.T) {
	m := Meeting{
		OwnerID:        "alice",
		ParticipantIDs: []string{"alice", "bob", "bob", ""},
	}
	assert.Equal(t, 2, participantCount(m), "owner and duplicates collapse")
}
