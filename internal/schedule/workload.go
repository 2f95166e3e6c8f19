package schedule

import (
	"fmt"
	"math"
)

// Imbalance flagging constants. Flags are suppressed for teams smaller
// than minTeamSizeForFlags where the variance carries no signal.
const (
	minTeamSizeForFlags   = 3
	imbalanceStddevFactor = 1.5
)

// MemberLoad is one member's scheduled meeting load within a period.
type MemberLoad struct {
	UserID       string `json:"user_id"`
	Minutes      int    `json:"minutes"`
	MeetingCount int    `json:"meeting_count"`
}

// WorkloadReport aggregates a team's meeting load and its dispersion.
type WorkloadReport struct {
	Period        Interval     `json:"period"`
	Members       []MemberLoad `json:"members"`
	MeanMinutes   float64      `json:"mean_minutes"`
	StddevMinutes float64      `json:"stddev_minutes"`
	BalanceScore  float64      `json:"balance_score"`
	Overloaded    []string     `json:"overloaded,omitempty"`
	Underloaded   []string     `json:"underloaded,omitempty"`
}

// CalculateWorkloadBalance sums each member's scheduled minutes inside the
// period, scores the team's balance from the dispersion, and flags members
// far above or below the mean. Recurring meetings count once per
// occurrence inside the period; minutes are clamped to the period edges.
func (e *Engine) CalculateWorkloadBalance(memberIDs []string, period Interval) (*WorkloadReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	memberIDs = uniqueStrings(memberIDs)
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("no team members given: %w", ErrInvalidRange)
	}

	index, err := BuildAvailabilityIndex(e.snap, memberIDs, period)
	if err != nil {
		return nil, err
	}

	report := &WorkloadReport{Period: period, Members: make([]MemberLoad, 0, len(memberIDs))}
	var total float64
	for _, id := range memberIDs {
		busy, err := index.Busy(id)
		if err != nil {
			return nil, err
		}
		load := MemberLoad{UserID: id}
		for _, b := range busy {
			load.Minutes += int(b.Overlap(period).Minutes())
			load.MeetingCount++
		}
		total += float64(load.Minutes)
		report.Members = append(report.Members, load)
	}

	n := float64(len(report.Members))
	report.MeanMinutes = total / n

	var sq float64
	for _, m := range report.Members {
		d := float64(m.Minutes) - report.MeanMinutes
		sq += d * d
	}
	report.StddevMinutes = math.Sqrt(sq / n)
	report.BalanceScore = balanceScore(report.MeanMinutes, report.StddevMinutes)

	if len(report.Members) >= minTeamSizeForFlags && report.StddevMinutes > 0 {
		upper := report.MeanMinutes + imbalanceStddevFactor*report.StddevMinutes
		lower := report.MeanMinutes - imbalanceStddevFactor*report.StddevMinutes
		for _, m := range report.Members {
			switch {
			case float64(m.Minutes) > upper:
				report.Overloaded = append(report.Overloaded, m.UserID)
			case float64(m.Minutes) < lower:
				report.Underloaded = append(report.Underloaded, m.UserID)
			}
		}
	}
	return report, nil
}

// balanceScore maps load dispersion to a 0-10 score: identical loads score
// 10, and the score falls as the stddev grows relative to the mean.
func balanceScore(mean, stddev float64) float64 {
	if mean == 0 {
		return 10
	}
	return clampScore(10 * (1 - stddev/mean))
}

// uniqueStrings preserves first occurrences and drops empties.
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
