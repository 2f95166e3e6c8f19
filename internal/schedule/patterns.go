package schedule

import (
	"fmt"
	"time"
)

// PatternReport summarizes one user's meeting habits over a window. Hours
// and weekdays are in the user's local time.
type PatternReport struct {
	UserID                 string   `json:"user_id"`
	Window                 Interval `json:"window"`
	TotalMeetings          int      `json:"total_meetings"`
	TotalMinutes           int      `json:"total_minutes"`
	AverageDurationMinutes float64  `json:"average_duration_minutes"`
	BusiestWeekday         string   `json:"busiest_weekday,omitempty"`
	PeakHour               int      `json:"peak_hour"`
	BackToBack             int      `json:"back_to_back"`
	RecurringShare         float64  `json:"recurring_share"`
	FairnessScore          float64  `json:"fairness_score"`
	Observations           []string `json:"observations,omitempty"`
}

// Observation thresholds.
const (
	heavyLoadWeeklyMinutes = 20 * 60
	backToBackObservation  = 3
	recurringShareHigh     = 0.6
	fairnessLow            = 6.0
)

// AnalyzeMeetingPatterns aggregates the user's meeting occurrences inside
// the window into load, rhythm, and fairness figures with derived
// observations.
func (e *Engine) AnalyzeMeetingPatterns(userID string, window Interval) (*PatternReport, error) {
	u, err := e.snap.User(userID)
	if err != nil {
		return nil, err
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	index, err := BuildAvailabilityIndex(e.snap, []string{userID}, window)
	if err != nil {
		return nil, err
	}
	busy, err := index.Busy(userID)
	if err != nil {
		return nil, err
	}

	report := &PatternReport{UserID: userID, Window: window, PeakHour: -1}
	if len(busy) == 0 {
		report.Observations = append(report.Observations, "no meetings in the analyzed window")
		return report, nil
	}

	loc := u.Location()
	hourCounts := make(map[int]int)
	weekdayCounts := make(map[time.Weekday]int)
	var fairnessSum float64
	recurringCount := 0

	for i, b := range busy {
		local := b.Start.In(loc)
		hourCounts[local.Hour()]++
		weekdayCounts[local.Weekday()]++
		fairnessSum += fairnessBand(local.Hour())

		report.TotalMeetings++
		report.TotalMinutes += int(b.Overlap(window).Minutes())
		if m, ok := e.snap.Meetings[b.MeetingID]; ok && m.Recurring() {
			recurringCount++
		}
		if i > 0 && busy[i-1].Gap(b.Interval) < u.Buffer() {
			report.BackToBack++
		}
	}

	report.AverageDurationMinutes = float64(report.TotalMinutes) / float64(report.TotalMeetings)
	report.RecurringShare = float64(recurringCount) / float64(report.TotalMeetings)
	report.FairnessScore = fairnessSum / float64(report.TotalMeetings)

	for hour := 0; hour < 24; hour++ {
		if hourCounts[hour] == 0 {
			continue
		}
		if report.PeakHour == -1 || hourCounts[hour] > hourCounts[report.PeakHour] {
			report.PeakHour = hour
		}
	}
	best := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		if weekdayCounts[day] > best {
			best = weekdayCounts[day]
			report.BusiestWeekday = day.String()
		}
	}

	days := window.Duration().Hours() / 24
	weeklyMinutes := float64(report.TotalMinutes)
	if days > 0 {
		weeklyMinutes = float64(report.TotalMinutes) / days * 7
	}
	if weeklyMinutes > heavyLoadWeeklyMinutes {
		report.Observations = append(report.Observations,
			fmt.Sprintf("heavy meeting load: %.0f hours per week", weeklyMinutes/60))
	}
	if report.BackToBack > backToBackObservation {
		report.Observations = append(report.Observations,
			fmt.Sprintf("%d back-to-back meetings; buffers are being squeezed", report.BackToBack))
	}
	if len(u.Preferences.MeetingFreeBlocks) == 0 && weeklyMinutes > heavyLoadWeeklyMinutes/2 {
		report.Observations = append(report.Observations,
			"no meeting-free blocks declared; consider protecting focus time")
	}
	if report.RecurringShare > recurringShareHigh {
		report.Observations = append(report.Observations,
			fmt.Sprintf("recurring series make up %.0f%% of meetings", report.RecurringShare*100))
	}
	if report.FairnessScore < fairnessLow {
		report.Observations = append(report.Observations,
			"meetings often land outside comfortable local hours")
	}
	return report, nil
}
