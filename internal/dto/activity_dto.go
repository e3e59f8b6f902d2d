package dto

import (
	"time"

	"github.com/mergington/activities-api/internal/models"
)

// ActivityResponse mirrors the public wire shape of a single activity.
type ActivityResponse struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ActivitiesSnapshot is the result of listing the roster. Activities is
// serialized as a bare name-to-record map; CacheHit is surfaced as a header.
type ActivitiesSnapshot struct {
	Activities map[string]ActivityResponse
	CacheHit   bool
}

// NewActivityResponse converts a roster record into its wire shape.
func NewActivityResponse(activity models.Activity) ActivityResponse {
	participants := make([]string, len(activity.Participants))
	copy(participants, activity.Participants)

	return ActivityResponse{
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
	}
}

// NewActivitiesResponse converts a roster snapshot into its wire shape.
func NewActivitiesResponse(roster models.Roster) map[string]ActivityResponse {
	responses := make(map[string]ActivityResponse, len(roster))
	for name, activity := range roster {
		responses[name] = NewActivityResponse(activity)
	}
	return responses
}

// SignupRequest carries the identifiers for an enroll or withdraw operation.
// The service only requires non-empty values; email format is checked at the
// transport boundary.
type SignupRequest struct {
	Activity string `validate:"required"`
	Email    string `validate:"required"`
}

// SignupResult confirms a successful enroll or withdraw operation.
type SignupResult struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// Roster event types emitted on successful mutations.
const (
	RosterEventSignup     = "signup"
	RosterEventWithdrawal = "withdrawal"
)

// RosterEvent describes one successful roster mutation for the event feed.
type RosterEvent struct {
	Type       string    `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	Spots      int       `json:"spots_remaining"`
	OccurredAt time.Time `json:"occurred_at"`
}
