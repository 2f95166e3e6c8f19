package schedule

import "errors"

// Sentinel errors returned by engine operations. Callers match them with
// errors.Is; the tool layer translates them into user-facing failures.
var (
	// ErrUnknownUser indicates a participant ID absent from the snapshot.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidRange indicates a malformed interval or a non-positive
	// duration.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrMeetingNotFound indicates a meeting ID absent from the snapshot.
	ErrMeetingNotFound = errors.New("meeting not found")
)
