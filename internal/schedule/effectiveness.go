package schedule

import (
	"fmt"
	"math"
)

// typeProfile captures the expected shape of a meeting type.
type typeProfile struct {
	expectedMinutes int
	minParticipants int
	maxParticipants int // 0 means unbounded
}

var typeProfiles = map[MeetingType]typeProfile{
	TypeStandup:       {expectedMinutes: 15, minParticipants: 2, maxParticipants: 8},
	TypeOneOnOne:      {expectedMinutes: 30, minParticipants: 2, maxParticipants: 2},
	TypeTeam:          {expectedMinutes: 60, minParticipants: 3, maxParticipants: 10},
	TypePlanning:      {expectedMinutes: 60, minParticipants: 3, maxParticipants: 10},
	TypeReview:        {expectedMinutes: 45, minParticipants: 2, maxParticipants: 10},
	TypeAllHands:      {expectedMinutes: 60, minParticipants: 5},
	TypeBrainstorming: {expectedMinutes: 45, minParticipants: 3, maxParticipants: 8},
	TypeInterview:     {expectedMinutes: 60, minParticipants: 2, maxParticipants: 5},
	TypeOther:         {expectedMinutes: 30, minParticipants: 2, maxParticipants: 10},
}

// Component point budgets; they sum to the 10-point scale.
const (
	durationFitPoints    = 4.0
	participantFitPoints = 3.0
	agendaPoints         = 3.0
)

// EffectivenessScore is the deterministic 0-10 rating of a held meeting
// with the factors that produced it.
type EffectivenessScore struct {
	MeetingID string   `json:"meeting_id"`
	Score     float64  `json:"score"`
	Rating    string   `json:"rating"`
	Factors   []string `json:"factors,omitempty"`
}

// ScoreEffectiveness rates a meeting from its metadata alone: how the
// duration and participant count fit the meeting type, and whether an
// agenda exists. Agenda content is opaque and never evaluated.
func ScoreEffectiveness(m Meeting) EffectivenessScore {
	profile, ok := typeProfiles[m.Type]
	if !ok {
		profile = typeProfiles[TypeOther]
	}

	result := EffectivenessScore{MeetingID: m.ID}

	durationFit := durationFitScore(m.DurationMinutes, profile.expectedMinutes)
	switch {
	case durationFit >= durationFitPoints-0.5:
		result.Factors = append(result.Factors, fmt.Sprintf("duration %dm fits a %s", m.DurationMinutes, meetingTypeLabel(m.Type)))
	default:
		result.Factors = append(result.Factors, fmt.Sprintf("duration %dm deviates from the %dm expected for a %s",
			m.DurationMinutes, profile.expectedMinutes, meetingTypeLabel(m.Type)))
	}

	count := participantCount(m)
	participantFit := participantFitScore(count, profile)
	if participantFit >= participantFitPoints-0.5 {
		result.Factors = append(result.Factors, fmt.Sprintf("%d participants suit a %s", count, meetingTypeLabel(m.Type)))
	} else {
		result.Factors = append(result.Factors, fmt.Sprintf("%d participants is unusual for a %s", count, meetingTypeLabel(m.Type)))
	}

	agenda := 0.0
	if len(m.AgendaItems) > 0 {
		agenda = agendaPoints
		result.Factors = append(result.Factors, "agenda prepared")
	} else {
		result.Factors = append(result.Factors, "no agenda")
	}

	result.Score = clampScore(durationFit + participantFit + agenda)
	result.Rating = ratingFor(result.Score)
	return result
}

// durationFitScore degrades linearly with the relative deviation from the
// expected duration and bottoms out at a full multiple off.
func durationFitScore(minutes, expected int) float64 {
	if minutes <= 0 || expected <= 0 {
		return 0
	}
	deviation := math.Abs(float64(minutes-expected)) / float64(expected)
	if deviation >= 1 {
		return 0
	}
	return durationFitPoints * (1 - deviation)
}

// participantFitScore gives full points inside the type's range and
// degrades per participant outside it.
func participantFitScore(count int, profile typeProfile) float64 {
	switch {
	case count < profile.minParticipants:
		return math.Max(0, participantFitPoints-float64(profile.minParticipants-count))
	case profile.maxParticipants > 0 && count > profile.maxParticipants:
		return math.Max(0, participantFitPoints-0.5*float64(count-profile.maxParticipants))
	default:
		return participantFitPoints
	}
}

// participantCount counts distinct attendees including the owner.
func participantCount(m Meeting) int {
	seen := make(map[string]bool, len(m.ParticipantIDs)+1)
	if m.OwnerID != "" {
		seen[m.OwnerID] = true
	}
	for _, id := range m.ParticipantIDs {
		if id != "" {
			seen[id] = true
		}
	}
	return len(seen)
}

// ratingFor buckets a score into the display rating.
func ratingFor(score float64) string {
	switch {
	case score >= 8:
		return ImpactExcellent
	case score >= 6:
		return ImpactGood
	case score >= 4:
		return ImpactFair
	default:
		return ImpactPoor
	}
}

// meetingTypeLabel renders a type for humans, mapping the zero value to
// "meeting".
func meetingTypeLabel(t MeetingType) string {
	if t == "" {
		return "meeting"
	}
	return string(t)
}
