package repository

import "errors"

var (
	// ErrActivityNotFound indicates the activity name is not part of the roster.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrDuplicateParticipant indicates the email is already on the activity's list.
	ErrDuplicateParticipant = errors.New("participant already enrolled")
	// ErrParticipantNotFound indicates the email is absent from the activity's list.
	ErrParticipantNotFound = errors.New("participant not enrolled")
	// ErrCapacityReached indicates the activity has no spots remaining.
	ErrCapacityReached = errors.New("activity capacity reached")
)
