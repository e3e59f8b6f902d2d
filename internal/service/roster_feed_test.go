package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/dto"
)

func TestRosterFeedBroadcastsToSubscribers(t *testing.T) {
	feed := NewRosterFeed(nil, "", nil, testLogger())

	events, cancel := feed.Subscribe()
	defer cancel()

	feed.Publish(context.Background(), dto.RosterEvent{
		Type:     dto.RosterEventSignup,
		Activity: "Chess Club",
		Email:    "new@mergington.edu",
		Spots:    9,
	})

	select {
	case event := <-events:
		require.Equal(t, dto.RosterEventSignup, event.Type)
		require.Equal(t, "Chess Club", event.Activity)
		require.Equal(t, "new@mergington.edu", event.Email)
		require.False(t, event.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected a roster event")
	}
}

func TestRosterFeedUnsubscribeClosesChannel(t *testing.T) {
	feed := NewRosterFeed(nil, "", nil, testLogger())

	events, cancel := feed.Subscribe()
	cancel()

	_, open := <-events
	require.False(t, open)

	// Publishing after unsubscribe must not panic or block.
	feed.Publish(context.Background(), dto.RosterEvent{Type: dto.RosterEventWithdrawal, Activity: "Chess Club"})
}

func TestRosterFeedDoesNotBlockOnSlowSubscriber(t *testing.T) {
	feed := NewRosterFeed(nil, "", nil, testLogger())

	_, cancel := feed.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < rosterFeedBufferSize*2; i++ {
			feed.Publish(context.Background(), dto.RosterEvent{Type: dto.RosterEventSignup, Activity: "Gym Class"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
