package config

import (
	"errors"
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func required() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost/chiblets",
		"BOT_TOKEN":    "123:abc",
		"JWT_SECRET":   "secret",
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(required()))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Fatalf("port = %q", cfg.AppPort)
	}
	if cfg.AuthMaxAge != time.Hour {
		t.Fatalf("auth max age = %v", cfg.AuthMaxAge)
	}
	if cfg.GameRateLimit != 60 || cfg.GameRateWindow != 60 {
		t.Fatalf("game rate = %d/%d", cfg.GameRateLimit, cfg.GameRateWindow)
	}
	if cfg.DevMode || cfg.LogJSON {
		t.Fatalf("flags should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	m := required()
	m["APP_PORT"] = "9000"
	m["LOG_LEVEL"] = "DEBUG"
	m["DEV_MODE"] = "true"
	m["API_RATE_LIMIT"] = "-5"
	m["REDIS_DB"] = "2"

	cfg, err := FromEnv(env(m))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.AppPort != "9000" || cfg.LogLevel != "debug" || !cfg.DevMode {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.APIRateLimit != 120 {
		t.Fatalf("negative limit should fall back, got %d", cfg.APIRateLimit)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("redis db = %d", cfg.RedisDB)
	}
}

func TestFromEnvMissing(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "BOT_TOKEN", "JWT_SECRET"} {
		m := required()
		delete(m, key)
		if _, err := FromEnv(env(m)); !errors.Is(err, errMissing) {
			t.Fatalf("missing %s: err = %v", key, err)
		}
	}
}
