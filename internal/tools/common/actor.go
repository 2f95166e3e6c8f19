package common

// GetActorFromArgs extracts the roster user a tool call acts on behalf of.
// Scheduling tools take the acting user either as "user_id" (insight tools)
// or as "organizer" (create_meeting). Returns "" when the request names no
// user, for example find_optimal_slots over a participant list.
//
// Priority order:
//  1. Explicit "user_id" argument in request
//  2. Explicit "organizer" argument in request
//  3. "" (no actor)
func GetActorFromArgs(args map[string]interface{}) string {
	if userVal, ok := args["user_id"].(string); ok && userVal != "" {
		return userVal
	}
	if orgVal, ok := args["organizer"].(string); ok && orgVal != "" {
		return orgVal
	}
	return ""
}
