package db

import (
	"context"
	"time"

	"chiblets_lite/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 5 * time.Second

// Connect opens a pool for dsn and exits the process when the database is
// unreachable. Pool sizing comes from the dsn (pool_max_conns and friends).
func Connect(dsn string) *pgxpool.Pool {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("invalid DATABASE_URL", "error", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "host", cfg.ConnConfig.Host, "error", err)
	}

	logger.Info("database connected", "host", cfg.ConnConfig.Host, "max_conns", cfg.MaxConns)
	return pool
}
