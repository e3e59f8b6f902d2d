package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the activities service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	RedisURL           string
	NATSURL            string
	EventChannel       string
	ActivitiesCacheTTL time.Duration
	SeedFile           string
	StaticDir          string
	SignupRateMax      int
	SignupRateWindow   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file. Redis and NATS URLs are optional; when empty the service runs
// without the cache and without cross-node events.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("MERGINGTON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Mergington Activities API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("events.channel", "mergington:roster")
	v.SetDefault("activities.cache_ttl", "1m")
	v.SetDefault("static.dir", "./static")
	v.SetDefault("signup.rate_max", 20)
	v.SetDefault("signup.rate_window", "1m")

	ttlString := v.GetString("activities.cache_ttl")
	if ttlString == "" {
		ttlString = "1m"
	}
	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid activities cache ttl: %w", err)
	}

	windowString := v.GetString("signup.rate_window")
	if windowString == "" {
		windowString = "1m"
	}
	window, err := time.ParseDuration(windowString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid signup rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		EventChannel:       v.GetString("events.channel"),
		ActivitiesCacheTTL: ttl,
		SeedFile:           v.GetString("seed.file"),
		StaticDir:          v.GetString("static.dir"),
		SignupRateMax:      v.GetInt("signup.rate_max"),
		SignupRateWindow:   window,
	}

	if cfg.SignupRateMax <= 0 {
		cfg.SignupRateMax = 20
	}

	return cfg, nil
}
