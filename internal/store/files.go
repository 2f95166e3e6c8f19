package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/teemow/meetfewer/internal/recurrence"
	"github.com/teemow/meetfewer/internal/schedule"
)

func (s *Store) loadUsers() error {
	var users []schedule.User
	if err := readJSONFile(filepath.Join(s.dir, usersFile), &users); err != nil {
		return err
	}

	loaded := make(map[string]schedule.User, len(users))
	for _, u := range users {
		if u.ID == "" {
			return fmt.Errorf("%s: user without ID", usersFile)
		}
		if _, dup := loaded[u.ID]; dup {
			return fmt.Errorf("%s: duplicate user %q", usersFile, u.ID)
		}
		if tz := u.Preferences.Timezone; tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("%s: user %q: timezone %q: %w", usersFile, u.ID, tz, err)
			}
		}
		if u.WorkStart() >= u.WorkEnd() {
			return fmt.Errorf("%s: user %q: working hours end before they start", usersFile, u.ID)
		}
		loaded[u.ID] = u
	}

	s.mu.Lock()
	s.users = loaded
	s.mu.Unlock()
	return nil
}

func (s *Store) loadMeetings() error {
	var meetings []schedule.Meeting
	if err := readJSONFile(filepath.Join(s.dir, meetingsFile), &meetings); err != nil {
		return err
	}

	loaded := make(map[string]schedule.Meeting, len(meetings))
	for _, m := range meetings {
		if m.ID == "" {
			return fmt.Errorf("%s: meeting without ID", meetingsFile)
		}
		if _, dup := loaded[m.ID]; dup {
			return fmt.Errorf("%s: duplicate meeting %q", meetingsFile, m.ID)
		}
		if m.DurationMinutes <= 0 {
			return fmt.Errorf("%s: meeting %q: duration %d minutes", meetingsFile, m.ID, m.DurationMinutes)
		}
		if m.Recurring() {
			if err := recurrence.Validate(m.Recurrence); err != nil {
				return fmt.Errorf("%s: meeting %q: %w", meetingsFile, m.ID, err)
			}
		}
		m.Start = m.Start.UTC()
		loaded[m.ID] = m
	}

	s.mu.Lock()
	s.meetings = loaded
	s.mu.Unlock()
	return nil
}

func (s *Store) loadHistory() error {
	var history map[string][]schedule.Occurrence
	if err := readJSONFile(filepath.Join(s.dir, historyFile), &history); err != nil {
		return err
	}
	if history == nil {
		history = make(map[string][]schedule.Occurrence)
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()
	return nil
}

func (s *Store) persistMeetingsLocked() error {
	meetings := make([]schedule.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool { return meetings[i].ID < meetings[j].ID })
	return writeJSONFile(filepath.Join(s.dir, meetingsFile), meetings)
}

func (s *Store) persistHistoryLocked() error {
	return writeJSONFile(filepath.Join(s.dir, historyFile), s.history)
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// writeJSONFile writes via a temp file in the same directory and renames
// it over the target, so readers never observe a partial file.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
