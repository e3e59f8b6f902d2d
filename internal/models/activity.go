package models

// Activity is one extracurricular offering together with its current
// sign-ups. Participants keeps insertion order, which is the sign-up order.
type Activity struct {
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}

// Clone returns a copy whose participant list shares no backing array with
// the receiver.
func (a Activity) Clone() Activity {
	clone := a
	clone.Participants = make([]string, len(a.Participants))
	copy(clone.Participants, a.Participants)
	return clone
}

// HasParticipant reports whether email is already signed up. Matching is
// case-sensitive and exact.
func (a Activity) HasParticipant(email string) bool {
	for _, participant := range a.Participants {
		if participant == email {
			return true
		}
	}
	return false
}

// IsFull reports whether the activity has reached its capacity.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Roster maps activity names to their records.
type Roster map[string]Activity

// Clone deep-copies the roster so callers never alias store state.
func (r Roster) Clone() Roster {
	clone := make(Roster, len(r))
	for name, activity := range r {
		clone[name] = activity.Clone()
	}
	return clone
}
