// Package store persists users, meetings, and rotation history as JSON
// files and serves immutable snapshots to the scheduling engine.
//
// The engine never touches the store; tool handlers take a snapshot per
// request, run the engine over it, and write confirmed results back
// through the store. Writes are atomic (temp file plus rename) so a crash
// never leaves a half-written data file.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/teemow/meetfewer/internal/concurrent"
	"github.com/teemow/meetfewer/internal/recurrence"
	"github.com/teemow/meetfewer/internal/schedule"
)

// Data file names inside the store directory.
const (
	usersFile    = "users.json"
	meetingsFile = "meetings.json"
	historyFile  = "rotation_history.json"
)

// Store holds the scheduling data set in memory, backed by JSON files.
// It is safe for concurrent use.
type Store struct {
	dir string

	mu       sync.RWMutex
	users    map[string]schedule.User
	meetings map[string]schedule.Meeting
	history  map[string][]schedule.Occurrence
}

// Open loads the data files under dir, creating the directory when
// missing. Absent files yield an empty data set; malformed entries fail
// the open. The three files load concurrently.
func Open(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", dir, err)
	}

	s := &Store{
		dir:      dir,
		users:    make(map[string]schedule.User),
		meetings: make(map[string]schedule.Meeting),
		history:  make(map[string][]schedule.Occurrence),
	}

	pool := concurrent.NewWorkerPool(3)
	err := pool.Run(ctx,
		s.loadUsers,
		s.loadMeetings,
		s.loadHistory,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory the store reads and writes.
func (s *Store) Dir() string {
	return s.dir
}

// Snapshot returns an isolated copy of the current users and meetings for
// one engine request. Later writes do not leak into it.
func (s *Store) Snapshot() *schedule.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &schedule.Snapshot{
		Users:    make(map[string]schedule.User, len(s.users)),
		Meetings: make(map[string]schedule.Meeting, len(s.meetings)),
	}
	for id, u := range s.users {
		snap.Users[id] = u
	}
	for id, m := range s.meetings {
		snap.Meetings[id] = m
	}
	return snap
}

// Users returns all users sorted by ID.
func (s *Store) Users() []schedule.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schedule.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns the number of users and meetings currently held.
func (s *Store) Counts() (users, meetings int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.meetings)
}

// History returns the chronological rotation history of a recurring
// series. The result is a copy.
func (s *Store) History(seriesID string) []schedule.Occurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()

	occs := s.history[seriesID]
	out := make([]schedule.Occurrence, len(occs))
	copy(out, occs)
	return out
}

// CreateMeeting validates the meeting, assigns it an ID, and persists it.
// Fails with schedule.ErrInvalidRange for a non-positive duration or a bad
// recurrence descriptor and schedule.ErrUnknownUser for unknown attendees.
func (s *Store) CreateMeeting(m schedule.Meeting) (schedule.Meeting, error) {
	if m.DurationMinutes <= 0 {
		return schedule.Meeting{}, fmt.Errorf("meeting duration %d minutes: %w",
			m.DurationMinutes, schedule.ErrInvalidRange)
	}
	if m.Start.IsZero() {
		return schedule.Meeting{}, fmt.Errorf("meeting start missing: %w", schedule.ErrInvalidRange)
	}
	if len(m.ParticipantIDs) == 0 {
		return schedule.Meeting{}, fmt.Errorf("meeting has no participants: %w", schedule.ErrInvalidRange)
	}
	if m.Recurring() {
		if err := recurrence.Validate(m.Recurrence); err != nil {
			return schedule.Meeting{}, fmt.Errorf("%v: %w", err, schedule.ErrInvalidRange)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range m.ParticipantIDs {
		if _, ok := s.users[id]; !ok {
			return schedule.Meeting{}, fmt.Errorf("participant %q: %w", id, schedule.ErrUnknownUser)
		}
	}
	if m.OwnerID != "" {
		if _, ok := s.users[m.OwnerID]; !ok {
			return schedule.Meeting{}, fmt.Errorf("owner %q: %w", m.OwnerID, schedule.ErrUnknownUser)
		}
	}

	m.ID = uuid.NewString()
	m.Start = m.Start.UTC()
	s.meetings[m.ID] = m

	if err := s.persistMeetingsLocked(); err != nil {
		delete(s.meetings, m.ID)
		return schedule.Meeting{}, err
	}
	return m, nil
}

// SetEffectiveness stores a meeting's effectiveness score.
func (s *Store) SetEffectiveness(meetingID string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[meetingID]
	if !ok {
		return fmt.Errorf("meeting %q: %w", meetingID, schedule.ErrMeetingNotFound)
	}
	m.Effectiveness = &score
	s.meetings[meetingID] = m
	return s.persistMeetingsLocked()
}

// AppendOccurrence records one confirmed occurrence of a recurring series
// for the fairness rotation.
func (s *Store) AppendOccurrence(occ schedule.Occurrence) error {
	if occ.SeriesID == "" {
		return fmt.Errorf("occurrence without series ID: %w", schedule.ErrInvalidRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[occ.SeriesID] = append(s.history[occ.SeriesID], occ)
	if err := s.persistHistoryLocked(); err != nil {
		occs := s.history[occ.SeriesID]
		s.history[occ.SeriesID] = occs[:len(occs)-1]
		return err
	}
	return nil
}

// DefaultDir returns the platform data directory for meetfewer.
func DefaultDir() string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(homeDir(), "Library", "Application Support", "meetfewer")
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "meetfewer")
	}
	return filepath.Join(homeDir(), ".local", "share", "meetfewer")
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
