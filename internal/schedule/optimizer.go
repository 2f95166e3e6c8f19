package schedule

import (
	"context"
	"fmt"
	"sort"

	"github.com/teemow/meetfewer/internal/concurrent"
)

// Recommendation kinds, in priority order.
const (
	RecommendRebalance  = "rebalance"
	RecommendReschedule = "reschedule"
	RecommendAgenda     = "agenda"
)

// DefaultEffectivenessThreshold is the score below which a recurring
// meeting becomes a reschedule candidate.
const DefaultEffectivenessThreshold = 5.0

const (
	// optimizerWorkers bounds the parallel slot searches while rescoring.
	optimizerWorkers = 4

	// optimizerProposals is how many alternative slots each reschedule
	// recommendation carries.
	optimizerProposals = 3
)

// Recommendation is one actionable suggestion from schedule optimization.
type Recommendation struct {
	Kind      string          `json:"kind"`
	MeetingID string          `json:"meeting_id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Detail    string          `json:"detail"`
	Priority  int             `json:"priority"`
	Proposed  []CandidateSlot `json:"proposed_slots,omitempty"`
}

// OptimizeSchedule inspects the user's calendar and returns prioritized
// recommendations: a rebalance flag when the user is overloaded against
// their collaborators, alternative times for low-effectiveness recurring
// meetings, and agenda nudges for recurring meetings without one. Slot
// searches for the reschedule proposals run in parallel, bounded by a
// worker pool; ctx cancels them.
func (e *Engine) OptimizeSchedule(ctx context.Context, userID string, window Interval) ([]Recommendation, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.snap.User(userID); err != nil {
		return nil, err
	}

	team := map[string]bool{userID: true}
	var recurring []Meeting
	for _, m := range e.snap.Meetings {
		if !m.HasParticipant(userID) {
			continue
		}
		for _, id := range attendeeIDs(m) {
			if _, ok := e.snap.Users[id]; ok {
				team[id] = true
			}
		}
		if m.Recurring() {
			recurring = append(recurring, m)
		}
	}
	sort.Slice(recurring, func(i, j int) bool { return recurring[i].ID < recurring[j].ID })

	var recs []Recommendation

	if len(team) >= minTeamSizeForFlags {
		teamIDs := make([]string, 0, len(team))
		for id := range team {
			teamIDs = append(teamIDs, id)
		}
		sort.Strings(teamIDs)

		report, err := e.CalculateWorkloadBalance(teamIDs, window)
		if err != nil {
			return nil, err
		}
		for _, id := range report.Overloaded {
			if id != userID {
				continue
			}
			recs = append(recs, Recommendation{
				Kind:     RecommendRebalance,
				Priority: 1,
				Detail: fmt.Sprintf("scheduled %d meetings against a collaborator mean of %.0f minutes; decline or delegate the least valuable ones",
					memberCount(report, userID), report.MeanMinutes),
			})
		}
	}

	type reschedule struct {
		meeting Meeting
		score   float64
		slots   []CandidateSlot
	}
	var low []reschedule
	for _, m := range recurring {
		score := effectivenessOf(m)
		if score < DefaultEffectivenessThreshold {
			low = append(low, reschedule{meeting: m, score: score})
		}
	}

	pool := concurrent.NewWorkerPool(optimizerWorkers)
	jobs := make([]func() error, len(low))
	for i := range low {
		jobs[i] = func() error {
			m := low[i].meeting
			participants := knownAttendees(e.snap, m)
			if len(participants) == 0 {
				return nil
			}
			slots, err := e.FindOptimalSlots(SlotRequest{
				ParticipantIDs: participants,
				Duration:       m.Duration(),
				Range:          window,
				MaxResults:     optimizerProposals,
			})
			if err != nil {
				return fmt.Errorf("rescore meeting %q: %w", m.ID, err)
			}
			low[i].slots = slots
			return nil
		}
	}
	if err := pool.Run(ctx, jobs...); err != nil {
		return nil, err
	}

	sort.SliceStable(low, func(i, j int) bool { return low[i].score < low[j].score })
	for _, r := range low {
		detail := fmt.Sprintf("effectiveness %.1f; consider a better time", r.score)
		if len(r.slots) > 0 {
			detail = fmt.Sprintf("effectiveness %.1f; best alternative scores %.1f", r.score, r.slots[0].Scores.Overall)
		}
		recs = append(recs, Recommendation{
			Kind:      RecommendReschedule,
			MeetingID: r.meeting.ID,
			Title:     r.meeting.Title,
			Detail:    detail,
			Priority:  2,
			Proposed:  r.slots,
		})
	}

	for _, m := range recurring {
		if len(m.AgendaItems) > 0 {
			continue
		}
		recs = append(recs, Recommendation{
			Kind:      RecommendAgenda,
			MeetingID: m.ID,
			Title:     m.Title,
			Detail:    "recurring meeting has no agenda; a standing agenda lifts its effectiveness",
			Priority:  3,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority < recs[j].Priority })
	return recs, nil
}

// effectivenessOf prefers a stored score and falls back to the
// deterministic metadata rating.
func effectivenessOf(m Meeting) float64 {
	if m.Effectiveness != nil {
		return *m.Effectiveness
	}
	return ScoreEffectiveness(m).Score
}

// attendeeIDs lists the owner and participants without deduplication.
func attendeeIDs(m Meeting) []string {
	ids := make([]string, 0, len(m.ParticipantIDs)+1)
	if m.OwnerID != "" {
		ids = append(ids, m.OwnerID)
	}
	return append(ids, m.ParticipantIDs...)
}

// knownAttendees returns the meeting's distinct attendees present in the
// snapshot.
func knownAttendees(snap *Snapshot, m Meeting) []string {
	var out []string
	for _, id := range uniqueStrings(attendeeIDs(m)) {
		if _, ok := snap.Users[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// memberCount returns the meeting count recorded for a member in the
// report.
func memberCount(report *WorkloadReport, userID string) int {
	for _, m := range report.Members {
		if m.UserID == userID {
			return m.MeetingCount
		}
	}
	return 0
}
