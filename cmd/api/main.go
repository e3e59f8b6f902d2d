package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mergington/activities-api/internal/config"
	"github.com/mergington/activities-api/internal/database"
	"github.com/mergington/activities-api/internal/handler"
	"github.com/mergington/activities-api/internal/middleware"
	"github.com/mergington/activities-api/internal/repository"
	"github.com/mergington/activities-api/internal/router"
	"github.com/mergington/activities-api/internal/seed"
	"github.com/mergington/activities-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	roster, err := seed.Load(cfg.SeedFile)
	if err != nil {
		log.Fatalf("failed to load activity seed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Info().Msg("redis url not configured, running without activities cache")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rosterRepo := repository.NewRosterRepository(roster)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()

	feed := service.NewRosterFeed(redisClient, cfg.EventChannel, natsConn, logger)
	feed.Start(feedCtx)

	rosterService := service.NewRosterService(rosterRepo, validate, redisClient, cfg.ActivitiesCacheTTL, feed, logger)

	activityHandler := handler.NewActivityHandler(rosterService, validate, logger)
	feedHandler := handler.NewFeedHandler(feed, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler: activityHandler,
		FeedHandler:     feedHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
