package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chiblets_lite/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	BotToken    string
	JWTSecret   string
	JWTTTL      time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool
	LogFile  string

	// BalanceFile optionally overrides the built-in balance tables.
	BalanceFile string
	DevMode     bool
	AuthMaxAge  time.Duration

	// AllowedOrigin restricts CORS and websocket origins. Empty allows any.
	AllowedOrigin string

	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow int
}

var errMissing = errors.New("required variable is not set")

// Load reads .env (if present) and the process environment. Missing
// required variables are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DatabaseURL:   getenv("DATABASE_URL"),
		BotToken:      getenv("BOT_TOKEN"),
		JWTSecret:     getenv("JWT_SECRET"),
		AppPort:       str(getenv, "APP_PORT", "8080"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		RedisDB:       positive(getenv, "REDIS_DB", 0),
		LogLevel:      strings.ToLower(str(getenv, "LOG_LEVEL", "info")),
		LogJSON:       getenv("LOG_JSON") == "true",
		LogFile:       getenv("LOG_FILE"),
		BalanceFile:   getenv("BALANCE_FILE"),
		DevMode:       getenv("DEV_MODE") == "true",
		AllowedOrigin: getenv("ALLOWED_ORIGIN"),

		JWTTTL:         time.Duration(positive(getenv, "JWT_TTL_HOURS", 24)) * time.Hour,
		AuthMaxAge:     time.Duration(positive(getenv, "AUTH_MAX_AGE_SECONDS", 3600)) * time.Second,
		APIRateLimit:   positive(getenv, "API_RATE_LIMIT", 120),
		APIRateWindow:  time.Duration(positive(getenv, "API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		GameRateLimit:  positive(getenv, "GAME_RATE_LIMIT", 60), // действий за окно
		GameRateWindow: positive(getenv, "GAME_RATE_WINDOW", 60),
	}

	for name, v := range map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"BOT_TOKEN":    cfg.BotToken,
		"JWT_SECRET":   cfg.JWTSecret,
	} {
		if v == "" {
			return nil, fmt.Errorf("%s: %w", name, errMissing)
		}
	}
	return cfg, nil
}

func str(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

// positive returns the integer value of key, or def when unset or not > 0.
func positive(getenv func(string) string, key string, def int) int {
	if v := getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
