package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/observability"
	"github.com/mergington/activities-api/internal/repository"
)

var (
	// ErrActivityNotFound indicates the activity name is not on the roster.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyEnrolled indicates a duplicate sign-up attempt.
	ErrAlreadyEnrolled = errors.New("student already signed up for this activity")
	// ErrNotEnrolled indicates a withdrawal for a student who never signed up.
	ErrNotEnrolled = errors.New("student not signed up for this activity")
	// ErrActivityFull indicates the activity has reached its capacity.
	ErrActivityFull = errors.New("activity is full")
)

const activitiesCacheKey = "activities:all:v1"

// RosterService exposes the roster operations consumed by the transport layer.
type RosterService interface {
	List(ctx context.Context) (dto.ActivitiesSnapshot, error)
	Enroll(ctx context.Context, req dto.SignupRequest) (dto.SignupResult, error)
	Withdraw(ctx context.Context, req dto.SignupRequest) (dto.SignupResult, error)
}

type rosterService struct {
	repo      repository.RosterRepository
	validator *validator.Validate
	cache     *redis.Client
	ttl       time.Duration
	feed      RosterFeed
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewRosterService constructs the roster service. The Redis client and the
// feed may be nil; the service then skips caching and event publication.
func NewRosterService(repo repository.RosterRepository, validate *validator.Validate, cache *redis.Client, ttl time.Duration, feed RosterFeed, logger zerolog.Logger) RosterService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &rosterService{
		repo:      repo,
		validator: validate,
		cache:     cache,
		ttl:       ttl,
		feed:      feed,
		logger:    logger.With().Str("component", "roster_service").Logger(),
		tracer:    otel.Tracer("github.com/mergington/activities-api/internal/service/roster"),
	}
}

func (s *rosterService) List(ctx context.Context) (dto.ActivitiesSnapshot, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, activitiesCacheKey).Result(); err == nil && cached != "" {
			var activities map[string]dto.ActivityResponse
			if err := json.Unmarshal([]byte(cached), &activities); err == nil {
				observability.CacheLookups().WithLabelValues("hit").Inc()
				return dto.ActivitiesSnapshot{Activities: activities, CacheHit: true}, nil
			}
		}
		observability.CacheLookups().WithLabelValues("miss").Inc()
	}

	roster, err := s.repo.List(ctx)
	if err != nil {
		observability.RosterOps().WithLabelValues("list", "error").Inc()
		return dto.ActivitiesSnapshot{}, err
	}

	activities := dto.NewActivitiesResponse(roster)

	if s.cache != nil {
		if payload, err := json.Marshal(activities); err == nil {
			if err := s.cache.Set(ctx, activitiesCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache activities")
			}
		}
	}

	observability.RosterOps().WithLabelValues("list", "ok").Inc()

	return dto.ActivitiesSnapshot{Activities: activities}, nil
}

func (s *rosterService) Enroll(ctx context.Context, req dto.SignupRequest) (dto.SignupResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SignupResult{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "roster.enroll", trace.WithAttributes(
		attribute.String("roster.activity", req.Activity),
	))
	defer span.End()

	record, err := s.repo.Enroll(spanCtx, req.Activity, req.Email)
	if err != nil {
		span.RecordError(err)
		observability.RosterOps().WithLabelValues("enroll", outcomeLabel(err)).Inc()
		return dto.SignupResult{}, mapRosterError(err)
	}

	s.invalidateCache(spanCtx)
	s.publishEvent(spanCtx, dto.RosterEventSignup, req, record.MaxParticipants-len(record.Participants))
	observability.RosterOps().WithLabelValues("enroll", "ok").Inc()

	s.logger.Info().Str("activity", req.Activity).Msg("student signed up")

	return dto.SignupResult{
		Activity: req.Activity,
		Email:    req.Email,
		Message:  fmt.Sprintf("Signed up %s for %s", req.Email, req.Activity),
	}, nil
}

func (s *rosterService) Withdraw(ctx context.Context, req dto.SignupRequest) (dto.SignupResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SignupResult{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "roster.withdraw", trace.WithAttributes(
		attribute.String("roster.activity", req.Activity),
	))
	defer span.End()

	record, err := s.repo.Withdraw(spanCtx, req.Activity, req.Email)
	if err != nil {
		span.RecordError(err)
		observability.RosterOps().WithLabelValues("withdraw", outcomeLabel(err)).Inc()
		return dto.SignupResult{}, mapRosterError(err)
	}

	s.invalidateCache(spanCtx)
	s.publishEvent(spanCtx, dto.RosterEventWithdrawal, req, record.MaxParticipants-len(record.Participants))
	observability.RosterOps().WithLabelValues("withdraw", "ok").Inc()

	s.logger.Info().Str("activity", req.Activity).Msg("student withdrawn")

	return dto.SignupResult{
		Activity: req.Activity,
		Email:    req.Email,
		Message:  fmt.Sprintf("Removed %s from %s", req.Email, req.Activity),
	}, nil
}

func (s *rosterService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, activitiesCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate activities cache")
	}
}

func (s *rosterService) publishEvent(ctx context.Context, eventType string, req dto.SignupRequest, spots int) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(ctx, dto.RosterEvent{
		Type:       eventType,
		Activity:   req.Activity,
		Email:      req.Email,
		Spots:      spots,
		OccurredAt: time.Now().UTC(),
	})
}

func mapRosterError(err error) error {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return ErrActivityNotFound
	case errors.Is(err, repository.ErrDuplicateParticipant):
		return ErrAlreadyEnrolled
	case errors.Is(err, repository.ErrParticipantNotFound):
		return ErrNotEnrolled
	case errors.Is(err, repository.ErrCapacityReached):
		return ErrActivityFull
	default:
		return err
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrDuplicateParticipant):
		return "duplicate"
	case errors.Is(err, repository.ErrParticipantNotFound):
		return "not_enrolled"
	case errors.Is(err, repository.ErrCapacityReached):
		return "full"
	default:
		return "error"
	}
}
