package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chiblets_lite/internal/balance"
	"chiblets_lite/internal/config"
	"chiblets_lite/internal/db"
	"chiblets_lite/internal/game"
	httpServer "chiblets_lite/internal/http"
	"chiblets_lite/internal/http/handlers"
	"chiblets_lite/internal/http/middleware"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/repository"
	"chiblets_lite/internal/service"
	"chiblets_lite/internal/telegram"
	"chiblets_lite/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Setup(logger.Options{
		Level: cfg.LogLevel,
		JSON:  cfg.LogJSON,
		File:  cfg.LogFile,
	})

	tables := balance.Default()
	if cfg.BalanceFile != "" {
		t, err := balance.LoadFile(cfg.BalanceFile)
		if err != nil {
			logger.Fatal("failed to load balance file", "path", cfg.BalanceFile, "error", err)
		}
		tables = t
		logger.Info("balance overrides loaded", "path", cfg.BalanceFile)
	}
	calc := game.NewCalc(tables)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := middleware.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	checks := map[string]handlers.Pinger{"database": dbPool}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	store := repository.NewStore(dbPool)
	hub := ws.NewHub()
	deps := service.NewDeps(store, calc, service.Options{Events: hub})
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	verifier := telegram.NewVerifier(cfg.BotToken, cfg.AuthMaxAge)

	h := handlers.NewHandler(handlers.Services{
		Auth:        service.NewAuthService(deps, verifier, tokens),
		Chiblets:    service.NewChibletService(deps),
		Battles:     service.NewBattleService(deps),
		Progress:    service.NewProgressService(deps),
		Spins:       service.NewSpinService(deps),
		Tasks:       service.NewTaskService(deps),
		Leaderboard: service.NewLeaderboardService(store.Users),
		Calc:        calc,
	}, cfg.DevMode)
	if cfg.DevMode {
		logger.Warn("DEV_MODE is on, dev_user logins are accepted")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	httpServer.RegisterRoutes(r, httpServer.RouteConfig{
		Handler:        h,
		Health:         handlers.NewHealthHandler(version, checks),
		Tokens:         tokens,
		Limiter:        middleware.NewLimiter(rdb),
		Hub:            hub,
		AllowedOrigin:  cfg.AllowedOrigin,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  cfg.APIRateWindow,
		GameRateLimit:  cfg.GameRateLimit,
		GameRateWindow: time.Duration(cfg.GameRateWindow) * time.Second,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
