package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/observability"
)

const rosterFeedBufferSize = 16

// RosterFeed fans successful roster mutations out to websocket subscribers on
// this node, and optionally across nodes via Redis pub/sub and NATS.
type RosterFeed interface {
	Publish(ctx context.Context, event dto.RosterEvent)
	Subscribe() (<-chan dto.RosterEvent, func())
	ServeConnection(conn *websocket.Conn)
	Start(ctx context.Context)
}

type rosterFeed struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *rosterBroker
	nodeID       string
}

type rosterEnvelope struct {
	Source string          `json:"source"`
	Event  dto.RosterEvent `json:"event"`
	SentAt time.Time       `json:"sent_at"`
}

type rosterBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.RosterEvent]struct{}
}

// NewRosterFeed constructs a roster event feed. Both the Redis client and the
// NATS connection may be nil; the feed then only broadcasts in-process.
func NewRosterFeed(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) RosterFeed {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &rosterFeed{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "roster_feed").Logger(),
		broker:       &rosterBroker{subscribers: make(map[chan dto.RosterEvent]struct{})},
		nodeID:       uuid.NewString(),
	}
}

func (f *rosterFeed) Start(ctx context.Context) {
	if f.redis != nil && f.redisChannel != "" {
		go f.consumeRedis(ctx)
	}
	if f.nats != nil && f.natsSubject != "" {
		go f.consumeNATS(ctx)
	}
}

func (f *rosterFeed) Publish(ctx context.Context, event dto.RosterEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	observability.RosterEvents().WithLabelValues(event.Type).Inc()
	f.broker.broadcast(event)

	if err := f.fanOut(ctx, event); err != nil {
		f.logger.Warn().Err(err).Str("activity", event.Activity).Msg("failed to publish roster event to broker")
	}
}

func (f *rosterFeed) Subscribe() (<-chan dto.RosterEvent, func()) {
	channel := make(chan dto.RosterEvent, rosterFeedBufferSize)

	f.broker.subscribe(channel)
	observability.FeedClients().Inc()

	cleanup := func() {
		f.broker.unsubscribe(channel)
		observability.FeedClients().Dec()
	}

	return channel, cleanup
}

// ServeConnection streams roster events to one websocket client until the
// client disconnects.
func (f *rosterFeed) ServeConnection(conn *websocket.Conn) {
	events, cancel := f.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

func (f *rosterFeed) fanOut(ctx context.Context, event dto.RosterEvent) error {
	if f.redis == nil && f.nats == nil {
		return nil
	}

	payload, err := json.Marshal(rosterEnvelope{
		Source: f.nodeID,
		Event:  event,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	if f.redis != nil && f.redisChannel != "" {
		if err := f.redis.Publish(ctx, f.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if f.nats != nil && f.natsSubject != "" {
		if err := f.nats.Publish(f.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (f *rosterFeed) consumeRedis(ctx context.Context) {
	pubsub := f.redis.Subscribe(ctx, f.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			f.logger.Error().Err(err).Msg("roster feed redis subscription closed")
			return
		}
		f.handleEnvelope([]byte(msg.Payload))
	}
}

func (f *rosterFeed) consumeNATS(ctx context.Context) {
	sub, err := f.nats.QueueSubscribe(f.natsSubject, "mergington-roster", func(msg *nats.Msg) {
		f.handleEnvelope(msg.Data)
	})
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to subscribe to roster events subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			f.logger.Warn().Err(err).Msg("failed to drain roster nats subscription")
		}
	}()
}

func (f *rosterFeed) handleEnvelope(payload []byte) {
	var envelope rosterEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		f.logger.Warn().Err(err).Msg("invalid roster event payload")
		return
	}

	if envelope.Source == f.nodeID {
		return
	}

	observability.RosterEvents().WithLabelValues(envelope.Event.Type).Inc()
	f.broker.broadcast(envelope.Event)
}

func (b *rosterBroker) subscribe(ch chan dto.RosterEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[ch] = struct{}{}
}

func (b *rosterBroker) unsubscribe(ch chan dto.RosterEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *rosterBroker) broadcast(event dto.RosterEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
