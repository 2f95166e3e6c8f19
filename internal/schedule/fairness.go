package schedule

import "time"

// Convenience scale constants. Ramps are fixed at 8am and 5pm local; a
// declared working window keeps its interior at the base value.
const (
	convenienceBase       = 8.0
	convenienceFloor      = 1.0
	earlyRampHour         = 8.0
	earlyRampRate         = 1.5
	lateRampHour          = 17.0
	lateRampRate          = 1.0
	harshBeforeHour       = 6
	harshAfterHour        = 22
	declaredWindowPenalty = 3.0
)

// Rotation fairness constants.
const (
	// FairnessConvenienceFloor is the convenience level below which an
	// occurrence counts as inconvenient for rotation purposes.
	FairnessConvenienceFloor = 4.0

	// fairnessMaxConsecutiveLow is how many consecutive inconvenient
	// occurrences a participant may bear before the rotation guarantee
	// lifts them back to the floor.
	fairnessMaxConsecutiveLow = 2

	fairnessBoostPerOccurrence = 0.75
	fairnessMaxBoost           = 2.5
)

// Impact qualifiers summarizing how a slot lands in a participant's day.
const (
	ImpactExcellent = "excellent"
	ImpactGood      = "good"
	ImpactFair      = "fair"
	ImpactPoor      = "poor"
)

// Convenience rates a local instant 0-10 for the user: peak inside the
// declared working window, ramping down in the early morning and evening,
// pinned near zero before 6am and after 10pm. Declared no-meeting windows
// subtract a fixed penalty.
func Convenience(u User, local time.Time) float64 {
	hour := float64(local.Hour()) + float64(local.Minute())/60
	if hour < harshBeforeHour || hour >= harshAfterHour {
		return convenienceFloor
	}

	minute := local.Hour()*60 + local.Minute()
	score := convenienceBase
	if minute < u.WorkStart() || minute >= u.WorkEnd() {
		if hour < earlyRampHour {
			score -= (earlyRampHour - hour) * earlyRampRate
		}
		if hour > lateRampHour {
			score -= (hour - lateRampHour) * lateRampRate
		}
	}

	if nb := u.Preferences.NoMeetingsBeforeMinute; nb > 0 && minute < nb {
		score -= declaredWindowPenalty
	}
	if na := u.Preferences.NoMeetingsAfterMinute; na > 0 && minute >= na {
		score -= declaredWindowPenalty
	}

	if score < convenienceFloor {
		return convenienceFloor
	}
	if score > 10 {
		return 10
	}
	return score
}

// Impact buckets a local instant into a coarse qualifier for display.
func Impact(local time.Time) string {
	h := local.Hour()
	switch {
	case h >= 9 && h < 17:
		return ImpactExcellent
	case h >= 8 && h < 18:
		return ImpactGood
	case h >= 7 && h < 19:
		return ImpactFair
	default:
		return ImpactPoor
	}
}

// Occurrence records one held occurrence of a recurring series and the
// convenience each participant received. The surrounding store owns the
// history; the engine consumes it as an injected parameter.
type Occurrence struct {
	SeriesID    string             `json:"series_id"`
	MeetingID   string             `json:"meeting_id,omitempty"`
	Start       time.Time          `json:"start"`
	Convenience map[string]float64 `json:"convenience"`
}

// consecutiveLow counts the trailing run of occurrences in which the user
// scored below the rotation floor. History must be in chronological order.
func consecutiveLow(history []Occurrence, userID string) int {
	n := 0
	for i := len(history) - 1; i >= 0; i-- {
		c, ok := history[i].Convenience[userID]
		if !ok || c >= FairnessConvenienceFloor {
			break
		}
		n++
	}
	return n
}

// FairConvenience applies the rotation adjustment on top of Convenience:
// participants who bore inconvenient times on prior occurrences of the
// same series receive a boost, and after the maximum consecutive run the
// result never drops below the rotation floor again.
func FairConvenience(u User, local time.Time, history []Occurrence) float64 {
	raw := Convenience(u, local)
	low := consecutiveLow(history, u.ID)
	if low == 0 {
		return raw
	}

	boost := fairnessBoostPerOccurrence * float64(low)
	if boost > fairnessMaxBoost {
		boost = fairnessMaxBoost
	}
	adjusted := clampScore(raw + boost)
	if low >= fairnessMaxConsecutiveLow && adjusted < FairnessConvenienceFloor {
		adjusted = FairnessConvenienceFloor
	}
	return adjusted
}

// fairnessBand rates a local meeting hour on the coarse time-zone
// fairness scale used in pattern analysis.
func fairnessBand(hour int) float64 {
	switch {
	case hour >= 9 && hour < 17:
		return 10
	case hour >= 8 && hour < 18:
		return 8
	case hour >= 7 && hour < 19:
		return 6
	case hour >= 6 && hour < 20:
		return 4
	default:
		return 1
	}
}
