package main

import (
	"context"
	"flag"
	"fmt"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/config"
	"chiblets_lite/internal/db"
	"chiblets_lite/internal/game"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/repository"
	"chiblets_lite/internal/seed"
	"chiblets_lite/internal/service"
	"chiblets_lite/internal/telegram"
)

// seed loads the species and task catalogue and can register a test player
// and print a session token for it.
func main() {
	tgID := flag.Int64("user", 0, "telegram id of a test player to create (0 = none)")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	ctx := context.Background()
	store := repository.NewStore(pool)
	sum, err := seed.Run(ctx, store)
	if err != nil {
		logger.Fatal("seed failed", "error", err)
	}
	fmt.Printf("seeded %d species, %d new tasks\n", sum.Species, sum.TasksCreated)

	if *tgID == 0 {
		return
	}

	tables := balance.Default()
	if cfg.BalanceFile != "" {
		if tables, err = balance.LoadFile(cfg.BalanceFile); err != nil {
			logger.Fatal("failed to load balance file", "error", err)
		}
	}
	deps := service.NewDeps(store, game.NewCalc(tables), service.Options{})
	auth := service.NewAuthService(deps,
		telegram.NewVerifier(cfg.BotToken, cfg.AuthMaxAge),
		service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	)
	res, err := auth.LoginAs(ctx, telegram.WebAppUser{ID: *tgID, Username: "testuser", FirstName: "Tester"})
	if err != nil {
		logger.Fatal("create test player failed", "error", err)
	}
	fmt.Printf("player id=%d created=%v wchibi=%d\n", res.User.ID, res.Created, res.User.Wchibi)
	fmt.Println("JWT:", res.Token)
}
