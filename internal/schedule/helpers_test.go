package schedule

import "time"

// testUser builds a user in the given zone with default preferences.
func testUser(id, tz string) User {
	return User{
		ID:    id,
		Name:  id,
		Email: id + "@example.com",
		Preferences: UserPreferences{
			Timezone: tz,
		},
	}
}

// testSnapshot assembles a snapshot from user and meeting slices.
func testSnapshot(users []User, meetings []Meeting) *Snapshot {
	snap := &Snapshot{
		Users:    make(map[string]User, len(users)),
		Meetings: make(map[string]Meeting, len(meetings)),
	}
	for _, u := range users {
		snap.Users[u.ID] = u
	}
	for _, m := range meetings {
		snap.Meetings[m.ID] = m
	}
	return snap
}

// utc is shorthand for a UTC instant on the test calendar.
func utc(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func floatPtr(v float64) *float64 {
	return &v
}
