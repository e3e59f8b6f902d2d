package repository

import (
	"context"
	"sync"

	"github.com/mergington/activities-api/internal/models"
)

// RosterRepository owns the in-memory roster and serializes every mutation.
type RosterRepository interface {
	List(ctx context.Context) (models.Roster, error)
	Get(ctx context.Context, activity string) (models.Activity, error)
	Enroll(ctx context.Context, activity, email string) (models.Activity, error)
	Withdraw(ctx context.Context, activity, email string) (models.Activity, error)
}

type rosterRepository struct {
	mu         sync.RWMutex
	activities models.Roster
}

// NewRosterRepository constructs a roster store initialised from seed. The
// seed is cloned so the caller keeps no handle on store state, and the set of
// activity names is fixed for the lifetime of the store.
func NewRosterRepository(seed models.Roster) RosterRepository {
	if seed == nil {
		seed = models.Roster{}
	}
	return &rosterRepository{activities: seed.Clone()}
}

func (r *rosterRepository) List(_ context.Context) (models.Roster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activities.Clone(), nil
}

func (r *rosterRepository) Get(_ context.Context, activity string) (models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.activities[activity]
	if !ok {
		return models.Activity{}, ErrActivityNotFound
	}
	return record.Clone(), nil
}

func (r *rosterRepository) Enroll(_ context.Context, activity, email string) (models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.activities[activity]
	if !ok {
		return models.Activity{}, ErrActivityNotFound
	}
	if record.HasParticipant(email) {
		return models.Activity{}, ErrDuplicateParticipant
	}
	if record.IsFull() {
		return models.Activity{}, ErrCapacityReached
	}

	record.Participants = append(record.Participants, email)
	r.activities[activity] = record

	return record.Clone(), nil
}

func (r *rosterRepository) Withdraw(_ context.Context, activity, email string) (models.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.activities[activity]
	if !ok {
		return models.Activity{}, ErrActivityNotFound
	}

	index := -1
	for i, participant := range record.Participants {
		if participant == email {
			index = i
			break
		}
	}
	if index < 0 {
		return models.Activity{}, ErrParticipantNotFound
	}

	record.Participants = append(record.Participants[:index], record.Participants[index+1:]...)
	r.activities[activity] = record

	return record.Clone(), nil
}
