package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/mergington/activities-api/internal/service"
)

// FeedHandler upgrades clients onto the roster event websocket feed.
type FeedHandler struct {
	feed   service.RosterFeed
	logger zerolog.Logger
}

// NewFeedHandler constructs the feed handler.
func NewFeedHandler(feed service.RosterFeed, logger zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		feed:   feed,
		logger: logger.With().Str("component", "feed_handler").Logger(),
	}
}

// Register binds the websocket route under the provided router group.
func (h *FeedHandler) Register(router fiber.Router) {
	router.Use("/activities", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/activities", websocket.New(h.handleConnection))
}

func (h *FeedHandler) handleConnection(conn *websocket.Conn) {
	h.logger.Info().Msg("roster feed client connected")
	h.feed.ServeConnection(conn)
	h.logger.Info().Msg("roster feed client disconnected")
}
