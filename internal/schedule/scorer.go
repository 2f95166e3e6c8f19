package schedule

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Weights combine the four component scores into the overall score.
type Weights struct {
	Productivity float64
	Convenience  float64
	ConflictRisk float64
	Preference   float64
}

// DefaultWeights are the fixed production weights.
var DefaultWeights = Weights{
	Productivity: 0.40,
	Convenience:  0.30,
	ConflictRisk: 0.20,
	Preference:   0.10,
}

// Slot-search defaults.
const (
	DefaultGranularity = 15 * time.Minute
	DefaultMaxResults  = 5

	// defaultPreferenceScore applies when the request carries no explicit
	// preferences.
	defaultPreferenceScore = 7.0
)

// scoreEpsilon separates genuinely tied overall scores from float noise
// when ordering candidates.
const scoreEpsilon = 1e-9

// SlotRequest parameterizes one slot search.
type SlotRequest struct {
	ParticipantIDs []string
	Duration       time.Duration
	Range          Interval

	// Granularity is the candidate step; zero means DefaultGranularity.
	Granularity time.Duration

	// MaxResults bounds the returned candidates; zero means
	// DefaultMaxResults.
	MaxResults int

	// Priority and TimeOfDay are the caller's explicit preferences.
	// TimeOfDay names a productivity band such as "morning".
	Priority  string
	TimeOfDay string

	// History holds prior occurrences of the recurring series being
	// scheduled, enabling the fairness rotation.
	History []Occurrence
}

// ScoreBreakdown carries the component scores of a candidate, each 0-10.
// ConflictRisk is already inverted: 10 means conflict-free.
type ScoreBreakdown struct {
	Productivity float64 `json:"productivity"`
	Convenience  float64 `json:"convenience"`
	ConflictRisk float64 `json:"conflict_risk"`
	Preference   float64 `json:"preference"`
	Overall      float64 `json:"overall"`
}

// ParticipantImpact renders a candidate in one participant's local terms.
type ParticipantImpact struct {
	LocalTime   string  `json:"local_time"`
	Impact      string  `json:"impact"`
	Convenience float64 `json:"convenience"`
}

// CandidateSlot is one ranked suggestion from a slot search.
type CandidateSlot struct {
	Rank int `json:"rank"`
	Interval
	Scores            ScoreBreakdown               `json:"scores"`
	ParticipantImpact map[string]ParticipantImpact `json:"participant_impact"`
	Explanation       string                       `json:"explanation"`

	convenienceVariance float64
}

// Engine orchestrates the scoring components over one immutable snapshot.
// Engines are cheap to build and intended to live for a single request.
type Engine struct {
	snap     *Snapshot
	patterns *PatternModel
	weights  Weights
	now      time.Time
}

// NewEngine builds an engine over a snapshot. now anchors the recency
// weighting of the productivity model.
func NewEngine(snap *Snapshot, now time.Time) *Engine {
	return &Engine{
		snap:     snap,
		patterns: NewPatternModel(snap, now),
		weights:  DefaultWeights,
		now:      now,
	}
}

// Snapshot returns the snapshot the engine was built over.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap
}

// Patterns returns the engine's productivity model.
func (e *Engine) Patterns() *PatternModel {
	return e.patterns
}

// FindOptimalSlots enumerates and scores candidate slots for the request
// and returns the best ones in rank order. An empty result means no
// feasible slot exists; it is not an error.
func (e *Engine) FindOptimalSlots(req SlotRequest) ([]CandidateSlot, error) {
	if req.Duration <= 0 {
		return nil, fmt.Errorf("slot duration %s: %w", req.Duration, ErrInvalidRange)
	}
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if len(req.ParticipantIDs) == 0 {
		return nil, fmt.Errorf("no participants given: %w", ErrInvalidRange)
	}
	users, err := e.snap.ResolveUsers(req.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	granularity := req.Granularity
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	// Widen the index window by the largest buffer so meetings just
	// outside the range still trigger buffer violations.
	maxBuffer := time.Duration(0)
	for _, u := range users {
		if b := u.Buffer(); b > maxBuffer {
			maxBuffer = b
		}
	}
	window := Interval{Start: req.Range.Start.Add(-maxBuffer), End: req.Range.End.Add(maxBuffer)}
	index, err := BuildAvailabilityIndex(e.snap, req.ParticipantIDs, window)
	if err != nil {
		return nil, err
	}
	detector := NewDetector(index)

	var results []CandidateSlot
	for _, start := range enumerateStarts(users, req.Range, granularity, req.Duration) {
		slot := NewInterval(start, req.Duration)
		cand, ok, err := e.scoreSlot(users, slot, req, detector)
		if err != nil {
			return nil, err
		}
		if ok {
			results = append(results, cand)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		si, sj := results[i].Scores.Overall, results[j].Scores.Overall
		if math.Abs(si-sj) > scoreEpsilon {
			return si > sj
		}
		if !results[i].Start.Equal(results[j].Start) {
			return results[i].Start.Before(results[j].Start)
		}
		return results[i].convenienceVariance < results[j].convenienceVariance
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// enumerateStarts yields candidate start instants at the given granularity
// inside the union of the participants' working-hour windows. A candidate
// must fit entirely inside one window, so suggestions never spill past the
// end of a working day.
func enumerateStarts(users []User, dateRange Interval, granularity, duration time.Duration) []time.Time {
	var windows []Interval
	for _, u := range users {
		windows = append(windows, workingWindowsUTC(u, dateRange)...)
	}
	merged := mergeIntervals(windows)

	var starts []time.Time
	for _, w := range merged {
		start := w.Start.Truncate(granularity)
		if start.Before(w.Start) {
			start = start.Add(granularity)
		}
		for ; start.Before(w.End); start = start.Add(granularity) {
			if start.Add(duration).After(w.End) {
				break
			}
			starts = append(starts, start)
		}
	}
	return starts
}

// workingWindowsUTC converts the user's working hours on each working day
// touched by the range into UTC intervals clamped to the range.
func workingWindowsUTC(u User, dateRange Interval) []Interval {
	loc := u.Location()
	localStart := dateRange.Start.In(loc)
	localEnd := dateRange.End.In(loc)

	var out []Interval
	day := time.Date(localStart.Year(), localStart.Month(), localStart.Day(), 0, 0, 0, 0, loc)
	for day.Before(localEnd) {
		if u.WorksOn(day.Weekday()) {
			w := Interval{
				Start: time.Date(day.Year(), day.Month(), day.Day(), 0, u.WorkStart(), 0, 0, loc).UTC(),
				End:   time.Date(day.Year(), day.Month(), day.Day(), 0, u.WorkEnd(), 0, 0, loc).UTC(),
			}
			if w.Valid() && w.Overlaps(dateRange) {
				out = append(out, w.Clamp(dateRange))
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// mergeIntervals sorts intervals and coalesces overlapping or touching
// ones.
func mergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start.Before(ivs[j].Start) })

	merged := []Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// scoreSlot evaluates one candidate. ok is false when the slot is vetoed
// by a meeting-free block or disqualified by a hard conflict.
func (e *Engine) scoreSlot(users []User, slot Interval, req SlotRequest, detector *Detector) (CandidateSlot, bool, error) {
	for _, u := range users {
		if e.patterns.InMeetingFreeBlock(u, slot.Start.In(u.Location()), slot.Duration()) {
			return CandidateSlot{}, false, nil
		}
	}

	var penalty float64
	for _, u := range users {
		report, err := detector.Detect(u.ID, slot)
		if err != nil {
			return CandidateSlot{}, false, err
		}
		if report.HasHard() {
			return CandidateSlot{}, false, nil
		}
		penalty += report.Penalty()
	}
	if penalty > maxConflictPenalty {
		penalty = maxConflictPenalty
	}
	conflictRisk := 10 - penalty

	impacts := make(map[string]ParticipantImpact, len(users))
	conveniences := make([]float64, 0, len(users))
	var prodSum, convSum float64
	for _, u := range users {
		local := slot.Start.In(u.Location())
		p := e.patterns.Productivity(u, local)
		c := FairConvenience(u, local, req.History)
		prodSum += p
		convSum += c
		conveniences = append(conveniences, c)
		impacts[u.ID] = ParticipantImpact{
			LocalTime:   local.Format("Mon 3:04 PM MST"),
			Impact:      Impact(local),
			Convenience: c,
		}
	}

	n := float64(len(users))
	breakdown := ScoreBreakdown{
		Productivity: prodSum / n,
		Convenience:  convSum / n,
		ConflictRisk: conflictRisk,
		Preference:   e.preferenceScore(users, slot, req),
	}
	breakdown.Overall = clampScore(
		e.weights.Productivity*breakdown.Productivity +
			e.weights.Convenience*breakdown.Convenience +
			e.weights.ConflictRisk*breakdown.ConflictRisk +
			e.weights.Preference*breakdown.Preference)

	return CandidateSlot{
		Interval:            slot,
		Scores:              breakdown,
		ParticipantImpact:   impacts,
		Explanation:         explain(breakdown, impacts),
		convenienceVariance: variance(conveniences),
	}, true, nil
}

// preferenceScore evaluates the request's explicit preferences against a
// slot. Without any, every slot scores the neutral default.
func (e *Engine) preferenceScore(users []User, slot Interval, req SlotRequest) float64 {
	score := defaultPreferenceScore

	matched := 0
	for _, u := range users {
		if u.PreferredDuration() == slot.Duration() {
			matched++
		}
	}
	score += 1.5 * float64(matched) / float64(len(users))

	if req.TimeOfDay != "" {
		inBand := 0
		for _, u := range users {
			if b, ok := bandFor(slot.Start.In(u.Location()).Hour()); ok && b.name == req.TimeOfDay {
				inBand++
			}
		}
		if inBand == 0 {
			score -= 1.0
		} else {
			score += 1.5 * float64(inBand) / float64(len(users))
		}
	}

	if req.Priority == "high" {
		score += 0.5
	}
	return clampScore(score)
}

// explain summarizes the dominant scoring factors in one sentence chain.
func explain(scores ScoreBreakdown, impacts map[string]ParticipantImpact) string {
	var parts []string

	switch {
	case scores.Productivity >= 8.5:
		parts = append(parts, "Peak productivity window for most participants")
	case scores.Productivity >= 7.0:
		parts = append(parts, "Good productivity window")
	}

	good := 0
	for _, impact := range impacts {
		if impact.Impact == ImpactExcellent || impact.Impact == ImpactGood {
			good++
		}
	}
	if good == len(impacts) {
		parts = append(parts, fmt.Sprintf("Works well for all %d participants", len(impacts)))
	} else {
		parts = append(parts, fmt.Sprintf("Works well for %d of %d participants", good, len(impacts)))
	}

	switch {
	case scores.ConflictRisk > 10-scoreEpsilon:
		parts = append(parts, "No scheduling conflicts")
	case scores.ConflictRisk >= 8.0:
		parts = append(parts, "Minor scheduling friction")
	default:
		parts = append(parts, "Notable conflict risk for some calendars")
	}

	return strings.Join(parts, ". ")
}

// clampScore pins a score to the 0-10 scale.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// variance returns the population variance of the values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
