package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/teemow/meetfewer/internal/recurrence"
)

// BusyInterval is one occupied stretch of a participant's calendar,
// annotated with the meeting that occupies it.
type BusyInterval struct {
	Interval
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title,omitempty"`
}

// AvailabilityIndex holds, per participant, the sorted busy intervals
// falling inside a query window. It is rebuilt per request from the
// snapshot and is read-only afterwards, so concurrent queries are safe.
type AvailabilityIndex struct {
	window Interval
	users  map[string]User
	busy   map[string][]BusyInterval
}

// BuildAvailabilityIndex indexes the busy intervals of the given users
// within window. Recurring meetings are expanded so every occurrence
// inside the window blocks time, not just the stored series start.
// Fails with ErrInvalidRange for an empty window and ErrUnknownUser for
// IDs absent from the snapshot.
func BuildAvailabilityIndex(snap *Snapshot, userIDs []string, window Interval) (*AvailabilityIndex, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	users, err := snap.ResolveUsers(userIDs)
	if err != nil {
		return nil, err
	}

	ix := &AvailabilityIndex{
		window: window,
		users:  make(map[string]User, len(users)),
		busy:   make(map[string][]BusyInterval, len(users)),
	}
	for _, u := range users {
		ix.users[u.ID] = u
		ix.busy[u.ID] = collectBusy(snap, u.ID, window)
	}
	return ix, nil
}

// collectBusy gathers and sorts one user's busy intervals in the window.
func collectBusy(snap *Snapshot, userID string, window Interval) []BusyInterval {
	var busy []BusyInterval
	for _, m := range snap.Meetings {
		if !m.HasParticipant(userID) {
			continue
		}
		for _, iv := range meetingOccurrences(m, window) {
			busy = append(busy, BusyInterval{Interval: iv, MeetingID: m.ID, Title: m.Title})
		}
	}
	sort.Slice(busy, func(i, j int) bool {
		if busy[i].Start.Equal(busy[j].Start) {
			return busy[i].End.Before(busy[j].End)
		}
		return busy[i].Start.Before(busy[j].Start)
	})
	return busy
}

// meetingOccurrences returns the occupied intervals of a meeting that
// overlap the window. A recurring meeting with an unparsable descriptor
// degrades to its stored start; the store validates descriptors on write,
// so this only affects hand-edited data.
func meetingOccurrences(m Meeting, window Interval) []Interval {
	if !m.Recurring() {
		if iv := m.Interval(); iv.Overlaps(window) {
			return []Interval{iv}
		}
		return nil
	}

	// Expand from one duration before the window so an occurrence that
	// starts earlier but runs into the window still counts.
	starts, err := recurrence.Expand(m.Recurrence, m.Start, window.Start.Add(-m.Duration()), window.End, 0)
	if err != nil {
		if iv := m.Interval(); iv.Overlaps(window) {
			return []Interval{iv}
		}
		return nil
	}

	out := make([]Interval, 0, len(starts))
	for _, start := range starts {
		if iv := NewInterval(start, m.Duration()); iv.Overlaps(window) {
			out = append(out, iv)
		}
	}
	return out
}

// Window returns the interval the index was built for.
func (ix *AvailabilityIndex) Window() Interval {
	return ix.window
}

// User returns an indexed user, or ErrUnknownUser when the ID was not part
// of the build.
func (ix *AvailabilityIndex) User(userID string) (User, error) {
	u, ok := ix.users[userID]
	if !ok {
		return User{}, fmt.Errorf("user %q not indexed: %w", userID, ErrUnknownUser)
	}
	return u, nil
}

// Busy returns the user's sorted busy intervals within the index window.
func (ix *AvailabilityIndex) Busy(userID string) ([]BusyInterval, error) {
	if _, err := ix.User(userID); err != nil {
		return nil, err
	}
	return ix.busy[userID], nil
}

// Overlapping returns the user's busy intervals that overlap iv, in start
// order.
func (ix *AvailabilityIndex) Overlapping(userID string, iv Interval) ([]BusyInterval, error) {
	busy, err := ix.Busy(userID)
	if err != nil {
		return nil, err
	}

	// Busy intervals are sorted by start; nothing at or past iv.End can
	// overlap.
	limit := sort.Search(len(busy), func(i int) bool {
		return !busy[i].Start.Before(iv.End)
	})

	var out []BusyInterval
	for _, b := range busy[:limit] {
		if b.Overlaps(iv) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Nearby returns the user's busy intervals within distance of iv without
// truly overlapping it. Used for buffer-violation detection.
func (ix *AvailabilityIndex) Nearby(userID string, iv Interval, distance time.Duration) ([]BusyInterval, error) {
	busy, err := ix.Busy(userID)
	if err != nil {
		return nil, err
	}

	widened := Interval{Start: iv.Start.Add(-distance), End: iv.End.Add(distance)}
	var out []BusyInterval
	for _, b := range busy {
		if !b.Start.Before(widened.End) {
			break
		}
		if b.Overlaps(iv) || !b.Overlaps(widened) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
