package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/mergington/activities-api/internal/dto"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/service"
	"github.com/mergington/activities-api/internal/utils"
)

// ActivityHandler serves the activity listing and signup endpoints.
type ActivityHandler struct {
	service   service.RosterService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.RosterService, validator *validator.Validate, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the activity routes under the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/:activity/signup", h.signup)
	router.Delete("/:activity/signup", h.withdraw)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	snapshot, err := h.service.List(h.requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activities")
		return utils.SendDetail(c, fiber.StatusInternalServerError, "Failed to list activities")
	}

	if snapshot.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	// The listing is a bare name-to-record map, not an envelope.
	return c.Status(fiber.StatusOK).JSON(snapshot.Activities)
}

func (h *ActivityHandler) signup(c *fiber.Ctx) error {
	name := activityParam(c)
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return utils.SendDetail(c, fiber.StatusBadRequest, "Email is required")
	}
	if err := h.validator.Var(email, "email"); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "Invalid email address")
	}

	result, err := h.service.Enroll(h.requestContext(c), dto.SignupRequest{Activity: name, Email: email})
	if err != nil {
		return h.sendRosterError(c, err, "failed to sign up for activity")
	}

	return utils.SendMessage(c, result.Message)
}

func (h *ActivityHandler) withdraw(c *fiber.Ctx) error {
	name := activityParam(c)
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return utils.SendDetail(c, fiber.StatusBadRequest, "Email is required")
	}

	result, err := h.service.Withdraw(h.requestContext(c), dto.SignupRequest{Activity: name, Email: email})
	if err != nil {
		return h.sendRosterError(c, err, "failed to remove participant")
	}

	return utils.SendMessage(c, result.Message)
}

func (h *ActivityHandler) sendRosterError(c *fiber.Ctx, err error, logMessage string) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "Activity not found")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendDetail(c, fiber.StatusBadRequest, "Student already signed up for this activity")
	case errors.Is(err, service.ErrNotEnrolled):
		return utils.SendDetail(c, fiber.StatusBadRequest, "Student not signed up for this activity")
	case errors.Is(err, service.ErrActivityFull):
		return utils.SendDetail(c, fiber.StatusBadRequest, "Activity is full")
	case isValidationError(err):
		return utils.SendDetail(c, fiber.StatusBadRequest, "Invalid request")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(logMessage)
		return utils.SendDetail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func (h *ActivityHandler) requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}
