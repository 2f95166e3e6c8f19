package common

import "testing"

func TestGetActorFromArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		expected string
	}{
		{
			name:     "no actor specified returns empty",
			args:     map[string]interface{}{},
			expected: "",
		},
		{
			name: "user_id specified returns user_id",
			args: map[string]interface{}{
				"user_id": "alice",
			},
			expected: "alice",
		},
		{
			name: "organizer specified returns organizer",
			args: map[string]interface{}{
				"organizer": "bob",
			},
			expected: "bob",
		},
		{
			name: "user_id takes precedence over organizer",
			args: map[string]interface{}{
				"user_id":   "alice",
				"organizer": "bob",
			},
			expected: "alice",
		},
		{
			name: "empty user_id falls back to organizer",
			args: map[string]interface{}{
				"user_id":   "",
				"organizer": "bob",
			},
			expected: "bob",
		},
		{
			name: "actor with other params",
			args: map[string]interface{}{
				"user_id": "carol",
				"days":    float64(30),
			},
			expected: "carol",
		},
		{
			name:     "nil args returns empty",
			args:     nil,
			expected: "",
		},
		{
			name: "non-string user_id returns empty",
			args: map[string]interface{}{
				"user_id": 123,
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetActorFromArgs(tt.args)
			if result != tt.expected {
				t.Errorf("GetActorFromArgs() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
