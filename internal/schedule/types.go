package schedule

import (
	"fmt"
	"time"
)

// MeetingType categorizes a meeting for effectiveness scoring.
type MeetingType string

// Supported meeting types.
const (
	TypeStandup       MeetingType = "standup"
	TypeOneOnOne      MeetingType = "one_on_one"
	TypeTeam          MeetingType = "team"
	TypePlanning      MeetingType = "planning"
	TypeReview        MeetingType = "review"
	TypeAllHands      MeetingType = "all_hands"
	TypeBrainstorming MeetingType = "brainstorming"
	TypeInterview     MeetingType = "interview"
	TypeOther         MeetingType = "other"
)

// Default preference values applied when a user leaves them unset.
const (
	DefaultWorkStartMinute          = 9 * 60
	DefaultWorkEndMinute            = 17 * 60
	DefaultBufferMinutes            = 15
	DefaultPreferredDurationMinutes = 30
)

// FreeBlock is a recurring meeting-free window in a user's local day,
// expressed as minutes from local midnight. An empty Days list applies the
// block to every working day.
type FreeBlock struct {
	StartMinute int            `json:"start_minute"`
	EndMinute   int            `json:"end_minute"`
	Days        []time.Weekday `json:"days,omitempty"`
	Label       string         `json:"label,omitempty"`
}

// appliesOn reports whether the block is active on the given weekday.
func (b FreeBlock) appliesOn(day time.Weekday) bool {
	if len(b.Days) == 0 {
		return true
	}
	for _, d := range b.Days {
		if d == day {
			return true
		}
	}
	return false
}

// UserPreferences holds a user's scheduling preferences. Zero values fall
// back to the Default* constants; minutes are counted from local midnight.
type UserPreferences struct {
	Timezone                 string         `json:"timezone"`
	WorkStartMinute          int            `json:"work_start_minute,omitempty"`
	WorkEndMinute            int            `json:"work_end_minute,omitempty"`
	WorkingDays              []time.Weekday `json:"working_days,omitempty"`
	ProductiveHours          []string       `json:"productive_hours,omitempty"`
	MeetingFreeBlocks        []FreeBlock    `json:"meeting_free_blocks,omitempty"`
	BufferMinutes            int            `json:"buffer_minutes,omitempty"`
	PreferredDurationMinutes int            `json:"preferred_duration_minutes,omitempty"`
	NoMeetingsBeforeMinute   int            `json:"no_meetings_before_minute,omitempty"`
	NoMeetingsAfterMinute    int            `json:"no_meetings_after_minute,omitempty"`
}

// User is a scheduling participant. Users are immutable during a request;
// the surrounding store owns creation and mutation.
type User struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Role        string          `json:"role,omitempty"`
	Preferences UserPreferences `json:"preferences"`
}

// Location resolves the user's IANA time zone, falling back to UTC when the
// zone is unset or unknown. The store validates zones at load time, so the
// fallback only matters for hand-built snapshots.
func (u User) Location() *time.Location {
	if u.Preferences.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Preferences.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkStart returns the start of the working window in minutes from local
// midnight.
func (u User) WorkStart() int {
	if u.Preferences.WorkStartMinute > 0 {
		return u.Preferences.WorkStartMinute
	}
	return DefaultWorkStartMinute
}

// WorkEnd returns the end of the working window in minutes from local
// midnight.
func (u User) WorkEnd() int {
	if u.Preferences.WorkEndMinute > 0 {
		return u.Preferences.WorkEndMinute
	}
	return DefaultWorkEndMinute
}

// Buffer returns the user's desired gap between adjacent meetings.
func (u User) Buffer() time.Duration {
	if u.Preferences.BufferMinutes > 0 {
		return time.Duration(u.Preferences.BufferMinutes) * time.Minute
	}
	return DefaultBufferMinutes * time.Minute
}

// PreferredDuration returns the user's preferred meeting length.
func (u User) PreferredDuration() time.Duration {
	if u.Preferences.PreferredDurationMinutes > 0 {
		return time.Duration(u.Preferences.PreferredDurationMinutes) * time.Minute
	}
	return DefaultPreferredDurationMinutes * time.Minute
}

// WorksOn reports whether the given weekday is a working day for the user.
// Without an explicit list, Monday through Friday are working days.
func (u User) WorksOn(day time.Weekday) bool {
	if len(u.Preferences.WorkingDays) == 0 {
		return day != time.Saturday && day != time.Sunday
	}
	for _, d := range u.Preferences.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// Meeting is a scheduled or proposed meeting. The engine reads meetings
// from the snapshot and proposes new ones; it never persists them itself.
type Meeting struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	OwnerID         string      `json:"owner_id"`
	ParticipantIDs  []string    `json:"participant_ids"`
	Start           time.Time   `json:"start"`
	DurationMinutes int         `json:"duration_minutes"`
	Type            MeetingType `json:"type,omitempty"`
	Recurrence      string      `json:"recurrence,omitempty"`
	Effectiveness   *float64    `json:"effectiveness,omitempty"`
	AgendaItems     []string    `json:"agenda_items,omitempty"`
}

// Duration returns the meeting length.
func (m Meeting) Duration() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}

// Interval returns the meeting's occupied interval for its stored start.
func (m Meeting) Interval() Interval {
	return Interval{Start: m.Start, End: m.Start.Add(m.Duration())}
}

// Recurring reports whether the meeting carries a recurrence descriptor.
func (m Meeting) Recurring() bool {
	return m.Recurrence != ""
}

// HasParticipant reports whether the user attends the meeting either as a
// participant or as the owner.
func (m Meeting) HasParticipant(userID string) bool {
	if m.OwnerID == userID {
		return true
	}
	for _, id := range m.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Snapshot is the immutable calendar state an engine operation reads. The
// caller builds it once per request; the engine never mutates it.
type Snapshot struct {
	Users    map[string]User
	Meetings map[string]Meeting
}

// User looks up a user by ID.
func (s *Snapshot) User(id string) (User, error) {
	u, ok := s.Users[id]
	if !ok {
		return User{}, fmt.Errorf("user %q: %w", id, ErrUnknownUser)
	}
	return u, nil
}

// Meeting looks up a meeting by ID.
func (s *Snapshot) Meeting(id string) (Meeting, error) {
	m, ok := s.Meetings[id]
	if !ok {
		return Meeting{}, fmt.Errorf("meeting %q: %w", id, ErrMeetingNotFound)
	}
	return m, nil
}

// ResolveUsers looks up all IDs, failing on the first unknown one.
func (s *Snapshot) ResolveUsers(ids []string) ([]User, error) {
	users := make([]User, 0, len(ids))
	for _, id := range ids {
		u, err := s.User(id)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
