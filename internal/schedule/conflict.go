package schedule

import (
	"fmt"
	"sort"
)

// Severity classifies how badly a busy interval clashes with a candidate.
type Severity string

// Conflict severities, ordered from worst to mildest.
const (
	// SeverityHard marks an overlap consuming more than half of either
	// interval. Hard conflicts disqualify a candidate outright.
	SeverityHard Severity = "hard"

	// SeveritySoft marks a partial overlap, such as a tail-end clash.
	SeveritySoft Severity = "soft"

	// SeverityBuffer marks a neighbor closer than the user's buffer
	// without a true overlap.
	SeverityBuffer Severity = "buffer"
)

const (
	// hardOverlapFraction is the overlap share at which a clash turns hard.
	hardOverlapFraction = 0.5

	// softPenaltyScale converts a soft conflict's overlap fraction into
	// score-penalty points.
	softPenaltyScale = 10.0

	// bufferPenalty is the fixed penalty for one buffer violation.
	bufferPenalty = 0.5

	// maxConflictPenalty caps the summed penalty so the conflict-risk
	// score stays within its 0-10 scale.
	maxConflictPenalty = 10.0
)

// Conflict is one clash between a candidate interval and an existing
// meeting occurrence.
type Conflict struct {
	MeetingID       string   `json:"meeting_id"`
	Title           string   `json:"title,omitempty"`
	Interval        Interval `json:"interval"`
	Severity        Severity `json:"severity"`
	OverlapMinutes  float64  `json:"overlap_minutes"`
	OverlapFraction float64  `json:"overlap_fraction"`
}

// ConflictReport lists one user's conflicts against a candidate interval,
// ordered by the conflicting occurrence's start.
type ConflictReport struct {
	UserID    string     `json:"user_id"`
	Candidate Interval   `json:"candidate"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// HasHard reports whether any conflict is hard.
func (r *ConflictReport) HasHard() bool {
	for _, c := range r.Conflicts {
		if c.Severity == SeverityHard {
			return true
		}
	}
	return false
}

// Penalty sums the report's score penalties: soft conflicts cost
// proportionally to their overlap fraction, buffer violations a small
// fixed amount. Hard conflicts are excluded since they disqualify the
// candidate instead of scoring it down.
func (r *ConflictReport) Penalty() float64 {
	var total float64
	for _, c := range r.Conflicts {
		switch c.Severity {
		case SeveritySoft:
			total += c.OverlapFraction * softPenaltyScale
		case SeverityBuffer:
			total += bufferPenalty
		}
	}
	return total
}

// Detector evaluates candidate intervals against the busy time held by an
// AvailabilityIndex.
type Detector struct {
	index *AvailabilityIndex
}

// NewDetector creates a Detector over an index.
func NewDetector(index *AvailabilityIndex) *Detector {
	return &Detector{index: index}
}

// Detect reports every conflict between the user's calendar and the
// candidate interval. Fails with ErrInvalidRange for a non-positive
// candidate duration and ErrUnknownUser for a user outside the index.
func (d *Detector) Detect(userID string, candidate Interval) (*ConflictReport, error) {
	if candidate.Duration() <= 0 {
		return nil, fmt.Errorf("candidate duration %s: %w", candidate.Duration(), ErrInvalidRange)
	}
	u, err := d.index.User(userID)
	if err != nil {
		return nil, err
	}

	report := &ConflictReport{UserID: userID, Candidate: candidate}

	overlapping, err := d.index.Overlapping(userID, candidate)
	if err != nil {
		return nil, err
	}
	for _, b := range overlapping {
		fraction := candidate.OverlapFraction(b.Interval)
		severity := SeveritySoft
		if fraction > hardOverlapFraction {
			severity = SeverityHard
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			MeetingID:       b.MeetingID,
			Title:           b.Title,
			Interval:        b.Interval,
			Severity:        severity,
			OverlapMinutes:  candidate.Overlap(b.Interval).Minutes(),
			OverlapFraction: fraction,
		})
	}

	nearby, err := d.index.Nearby(userID, candidate, u.Buffer())
	if err != nil {
		return nil, err
	}
	for _, b := range nearby {
		report.Conflicts = append(report.Conflicts, Conflict{
			MeetingID: b.MeetingID,
			Title:     b.Title,
			Interval:  b.Interval,
			Severity:  SeverityBuffer,
		})
	}

	sort.Slice(report.Conflicts, func(i, j int) bool {
		return report.Conflicts[i].Interval.Start.Before(report.Conflicts[j].Interval.Start)
	})
	return report, nil
}
