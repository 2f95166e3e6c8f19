package schedule

import (
	"fmt"
	"time"
)

// Interval is a half-open time interval [Start, End) on the UTC timeline.
// Touching intervals share a boundary instant and do not overlap.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval builds an interval from a start instant and a duration.
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Valid reports whether the interval has positive duration.
func (iv Interval) Valid() bool {
	return iv.End.After(iv.Start)
}

// Validate returns ErrInvalidRange when the interval is empty or inverted.
func (iv Interval) Validate() error {
	if !iv.Valid() {
		return fmt.Errorf("interval %s to %s: %w",
			iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339), ErrInvalidRange)
	}
	return nil
}

// Overlaps reports whether two intervals share any instant. The test is
// symmetric and exact at the boundary.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Overlap returns the length of the shared portion, zero when disjoint.
func (iv Interval) Overlap(other Interval) time.Duration {
	start := iv.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := iv.End
	if other.End.Before(end) {
		end = other.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start)
}

// OverlapFraction returns the overlap as a fraction of the larger share,
// i.e. max(overlap/len(iv), overlap/len(other)). A value above 0.5 means
// most of one of the two intervals is consumed by the other.
func (iv Interval) OverlapFraction(other Interval) float64 {
	ovl := iv.Overlap(other)
	if ovl == 0 {
		return 0
	}
	f := float64(ovl) / float64(iv.Duration())
	if of := float64(ovl) / float64(other.Duration()); of > f {
		f = of
	}
	return f
}

// Gap returns the distance between two disjoint intervals, zero when they
// overlap or touch.
func (iv Interval) Gap(other Interval) time.Duration {
	if iv.Overlaps(other) {
		return 0
	}
	if !iv.End.After(other.Start) {
		return other.Start.Sub(iv.End)
	}
	return iv.Start.Sub(other.End)
}

// Contains reports whether the instant falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Clamp restricts the interval to the given bounds. The result may be
// invalid when the two do not overlap.
func (iv Interval) Clamp(bounds Interval) Interval {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

// String renders the interval in RFC 3339 form for logs and explanations.
func (iv Interval) String() string {
	return iv.Start.Format(time.RFC3339) + "/" + iv.End.Format(time.RFC3339)
}
