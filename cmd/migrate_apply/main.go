package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"chiblets_lite/internal/db"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/migrations"
	"chiblets_lite/internal/repository"
	"chiblets_lite/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations")
	withSeed := flag.Bool("seed", false, "seed species and tasks after applying")
	flag.Parse()

	_ = godotenv.Load()
	logger.Setup(logger.Options{Level: os.Getenv("LOG_LEVEL")})

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}
	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Fatal("migration failed", "error", err)
	}
	if *withSeed {
		if _, err := seed.Run(ctx, repository.NewStore(pool)); err != nil {
			logger.Fatal("seed failed", "error", err)
		}
	}
}
