package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/models"
)

func testRoster() models.Roster {
	return models.Roster{
		"Test Activity": {
			Description:     "A test activity",
			Schedule:        "Test schedule",
			MaxParticipants: 5,
			Participants:    []string{"test1@mergington.edu", "test2@mergington.edu"},
		},
		"Empty Activity": {
			Description:     "An activity with no participants",
			Schedule:        "Empty schedule",
			MaxParticipants: 10,
			Participants:    []string{},
		},
	}
}

func TestRosterRepositoryListReturnsSnapshot(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	require.Equal(t, []string{"test1@mergington.edu", "test2@mergington.edu"}, roster["Test Activity"].Participants)

	// Mutating the snapshot must not leak into the store.
	snapshot := roster["Test Activity"]
	snapshot.Participants[0] = "tampered@mergington.edu"

	fresh, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test1@mergington.edu", fresh["Test Activity"].Participants[0])
}

func TestRosterRepositorySeedIsNotAliased(t *testing.T) {
	seed := testRoster()
	repo := NewRosterRepository(seed)

	seed["Test Activity"].Participants[0] = "tampered@mergington.edu"

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, "test1@mergington.edu", roster["Test Activity"].Participants[0])
}

func TestRosterRepositoryEnrollAppendsInOrder(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	record, err := repo.Enroll(context.Background(), "Test Activity", "new@mergington.edu")
	require.NoError(t, err)
	require.Equal(t, []string{"test1@mergington.edu", "test2@mergington.edu", "new@mergington.edu"}, record.Participants)
}

func TestRosterRepositoryEnrollEmptyActivity(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	record, err := repo.Enroll(context.Background(), "Empty Activity", "first@mergington.edu")
	require.NoError(t, err)
	require.Equal(t, []string{"first@mergington.edu"}, record.Participants)
}

func TestRosterRepositoryEnrollUnknownActivity(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	_, err := repo.Enroll(context.Background(), "Missing Activity", "x@mergington.edu")
	require.ErrorIs(t, err, ErrActivityNotFound)

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
}

func TestRosterRepositoryEnrollDuplicate(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	_, err := repo.Enroll(context.Background(), "Test Activity", "test1@mergington.edu")
	require.ErrorIs(t, err, ErrDuplicateParticipant)

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"test1@mergington.edu", "test2@mergington.edu"}, roster["Test Activity"].Participants)
}

func TestRosterRepositoryEnrollIdempotentFailure(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	_, err := repo.Enroll(context.Background(), "Test Activity", "new@mergington.edu")
	require.NoError(t, err)

	afterFirst, err := repo.List(context.Background())
	require.NoError(t, err)

	_, err = repo.Enroll(context.Background(), "Test Activity", "new@mergington.edu")
	require.ErrorIs(t, err, ErrDuplicateParticipant)

	afterSecond, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, afterFirst, afterSecond)
}

func TestRosterRepositoryEnrollAtCapacity(t *testing.T) {
	repo := NewRosterRepository(models.Roster{
		"Full Activity": {
			Description:     "No spots left",
			Schedule:        "Mondays",
			MaxParticipants: 2,
			Participants:    []string{"a@mergington.edu", "b@mergington.edu"},
		},
	})

	_, err := repo.Enroll(context.Background(), "Full Activity", "c@mergington.edu")
	require.ErrorIs(t, err, ErrCapacityReached)

	roster, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roster["Full Activity"].Participants, 2)
}

func TestRosterRepositoryWithdrawPreservesOrder(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	record, err := repo.Withdraw(context.Background(), "Test Activity", "test1@mergington.edu")
	require.NoError(t, err)
	require.Equal(t, []string{"test2@mergington.edu"}, record.Participants)
}

func TestRosterRepositoryWithdrawUnknownActivity(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	_, err := repo.Withdraw(context.Background(), "Missing Activity", "test1@mergington.edu")
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestRosterRepositoryWithdrawNotEnrolled(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	_, err := repo.Withdraw(context.Background(), "Empty Activity", "nobody@mergington.edu")
	require.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestRosterRepositoryEnrollWithdrawRoundTrip(t *testing.T) {
	repo := NewRosterRepository(testRoster())

	before, err := repo.List(context.Background())
	require.NoError(t, err)

	_, err = repo.Enroll(context.Background(), "Test Activity", "roundtrip@mergington.edu")
	require.NoError(t, err)
	_, err = repo.Withdraw(context.Background(), "Test Activity", "roundtrip@mergington.edu")
	require.NoError(t, err)

	after, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestRosterRepositoryConcurrentEnrollKeepsInvariants(t *testing.T) {
	const capacity = 10
	repo := NewRosterRepository(models.Roster{
		"Popular Activity": {
			Description:     "Oversubscribed",
			Schedule:        "Fridays",
			MaxParticipants: capacity,
			Participants:    []string{},
		},
	})

	var wg sync.WaitGroup
	for i := 0; i < capacity*3; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = repo.Enroll(context.Background(), "Popular Activity", fmt.Sprintf("student%d@mergington.edu", n))
		}(i)
	}
	wg.Wait()

	roster, err := repo.List(context.Background())
	require.NoError(t, err)

	participants := roster["Popular Activity"].Participants
	require.Len(t, participants, capacity)

	seen := make(map[string]struct{}, len(participants))
	for _, email := range participants {
		_, dup := seen[email]
		require.False(t, dup, "duplicate participant %s", email)
		seen[email] = struct{}{}
	}
}
