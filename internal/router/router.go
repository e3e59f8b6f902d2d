package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mergington/activities-api/internal/config"
	"github.com/mergington/activities-api/internal/handler"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler *handler.ActivityHandler
	FeedHandler     *handler.FeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Root redirects to the static index page.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/static/index.html", fiber.StatusTemporaryRedirect)
	})
	app.Static("/static", cfg.StaticDir)

	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ActivityHandler != nil {
		activities := app.Group("/activities")
		activities.Use("/:activity/signup", middleware.RateLimit("signup", cfg.SignupRateMax, cfg.SignupRateWindow))
		deps.ActivityHandler.Register(activities)
	}

	if deps.FeedHandler != nil {
		deps.FeedHandler.Register(app.Group("/ws"))
	}
}
