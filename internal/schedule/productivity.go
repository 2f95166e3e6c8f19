package schedule

import (
	"math"
	"time"
)

// Named productivity bands of the local day.
const (
	BandEarlyMorning  = "early_morning"
	BandMorning       = "morning"
	BandAfternoon     = "afternoon"
	BandLateAfternoon = "late_afternoon"
	BandEvening       = "evening"
)

// baselineProductivity applies to hours outside every band and to bands a
// user has not declared productive.
const baselineProductivity = 5.0

// DefaultPatternLookback bounds how far back meeting history influences
// the productivity model. Within the lookback, sample weight halves every
// half lookback, so recent meetings dominate.
const DefaultPatternLookback = 30 * 24 * time.Hour

type band struct {
	name     string
	from, to int // local hour, [from, to)
	score    float64
}

var bands = []band{
	{BandEarlyMorning, 6, 9, 9.0},
	{BandMorning, 9, 12, 9.5},
	{BandAfternoon, 12, 15, 8.5},
	{BandLateAfternoon, 15, 18, 8.0},
	{BandEvening, 18, 21, 7.0},
}

// bandFor returns the band containing the local hour.
func bandFor(hour int) (band, bool) {
	for _, b := range bands {
		if hour >= b.from && hour < b.to {
			return b, true
		}
	}
	return band{}, false
}

// defaultProductiveHours applies to users with no declared bands.
var defaultProductiveHours = []string{BandMorning, BandAfternoon}

type effectivenessSample struct {
	score float64
	at    time.Time
}

// PatternModel maps a user and a local time to a productivity value 0-10.
// It blends the user's static band preferences with a recency-weighted
// mean of effectiveness scores from past meetings held at similar local
// hours. Built once per request from the snapshot.
type PatternModel struct {
	now      time.Time
	lookback time.Duration
	history  map[string]map[string][]effectivenessSample
}

// NewPatternModel builds the model from scored meetings inside the
// lookback window ending at now.
func NewPatternModel(snap *Snapshot, now time.Time) *PatternModel {
	m := &PatternModel{
		now:      now,
		lookback: DefaultPatternLookback,
		history:  make(map[string]map[string][]effectivenessSample),
	}

	for _, meeting := range snap.Meetings {
		if meeting.Effectiveness == nil {
			continue
		}
		age := now.Sub(meeting.Start)
		if age < 0 || age > m.lookback {
			continue
		}
		sample := effectivenessSample{score: *meeting.Effectiveness, at: meeting.Start}

		seen := map[string]bool{}
		for _, pid := range append([]string{meeting.OwnerID}, meeting.ParticipantIDs...) {
			if pid == "" || seen[pid] {
				continue
			}
			seen[pid] = true
			u, ok := snap.Users[pid]
			if !ok {
				continue
			}
			local := meeting.Start.In(u.Location())
			b, ok := bandFor(local.Hour())
			if !ok {
				continue
			}
			byBand := m.history[pid]
			if byBand == nil {
				byBand = make(map[string][]effectivenessSample)
				m.history[pid] = byBand
			}
			byBand[b.name] = append(byBand[b.name], sample)
		}
	}
	return m
}

// Productivity returns the user's productivity value for a local instant.
func (m *PatternModel) Productivity(u User, local time.Time) float64 {
	static := m.staticScore(u, local.Hour())
	hist, ok := m.historicalScore(u.ID, local.Hour())
	if !ok {
		return static
	}
	return clampScore(0.5*static + 0.5*hist)
}

// staticScore evaluates the user's declared band preferences at an hour.
func (m *PatternModel) staticScore(u User, hour int) float64 {
	b, ok := bandFor(hour)
	if !ok {
		return baselineProductivity
	}
	declared := u.Preferences.ProductiveHours
	if len(declared) == 0 {
		declared = defaultProductiveHours
	}
	for _, name := range declared {
		if name == b.name {
			return b.score
		}
	}
	return baselineProductivity
}

// historicalScore returns the recency-weighted mean effectiveness of past
// meetings the user held in the hour's band, and whether any history
// exists there.
func (m *PatternModel) historicalScore(userID string, hour int) (float64, bool) {
	b, ok := bandFor(hour)
	if !ok {
		return 0, false
	}
	samples := m.history[userID][b.name]
	if len(samples) == 0 {
		return 0, false
	}

	halfLife := m.lookback / 2
	var weighted, weights float64
	for _, s := range samples {
		age := m.now.Sub(s.at)
		w := math.Pow(0.5, float64(age)/float64(halfLife))
		weighted += w * s.score
		weights += w
	}
	if weights == 0 {
		return 0, false
	}
	return weighted / weights, true
}

// InMeetingFreeBlock reports whether a slot starting at the user's local
// instant would intrude on one of their meeting-free blocks. Used as a
// hard veto before scoring.
func (m *PatternModel) InMeetingFreeBlock(u User, local time.Time, d time.Duration) bool {
	startMin := local.Hour()*60 + local.Minute()
	endMin := startMin + int(d.Minutes())
	for _, b := range u.Preferences.MeetingFreeBlocks {
		if !b.appliesOn(local.Weekday()) {
			continue
		}
		if startMin < b.EndMinute && b.StartMinute < endMin {
			return true
		}
	}
	return false
}
