package http

import (
	"time"

	"chiblets_lite/internal/http/handlers"
	"chiblets_lite/internal/http/middleware"
	"chiblets_lite/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouteConfig carries everything RegisterRoutes wires together.
type RouteConfig struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Tokens  middleware.TokenParser
	Limiter *middleware.Limiter
	Hub     *ws.Hub

	AllowedOrigin  string
	APIRateLimit   int
	APIRateWindow  time.Duration
	GameRateLimit  int
	GameRateWindow time.Duration
}

func RegisterRoutes(r *gin.Engine, rc RouteConfig) {
	r.Use(middleware.RequestID(), middleware.Metrics(), middleware.CORS(rc.AllowedOrigin))

	// Health checks (no rate limiting)
	r.GET("/health", rc.Health.Health)
	r.GET("/healthz", rc.Health.Liveness)
	r.GET("/readyz", rc.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/ws", middleware.JWT(rc.Tokens), ws.HandleWS(rc.Hub, rc.AllowedOrigin))

	v1 := r.Group("/api/v1")
	v1.Use(rc.Limiter.PerIP(rc.APIRateLimit, rc.APIRateWindow))
	registerAPIRoutes(v1, rc)
}

func registerAPIRoutes(api *gin.RouterGroup, rc RouteConfig) {
	h := rc.Handler

	api.POST("/auth", h.Auth)
	api.GET("/game/config", h.GameConfig)

	auth := api.Group("")
	auth.Use(middleware.JWT(rc.Tokens))

	// Game rate limiter middleware (per user, not per IP)
	gameRL := rc.Limiter.PerUser(rc.GameRateLimit, rc.GameRateWindow)

	auth.GET("/me", h.Me)
	auth.POST("/me/idle/claim", gameRL, h.ClaimIdle)

	auth.GET("/chiblets", h.ListChiblets)
	auth.PATCH("/chiblets/:id/active", h.SetActive)
	auth.PATCH("/chiblets/:id/name", h.Rename)
	auth.POST("/chiblets/:id/level-up", gameRL, h.LevelUp)
	auth.POST("/chiblets/fuse", gameRL, h.Fuse)

	auth.GET("/stages", h.Stages)
	auth.POST("/battle/stage", gameRL, h.FightStage)
	auth.POST("/battle/find-opponent", gameRL, h.FindOpponent)
	auth.POST("/battle/pvp", gameRL, h.FightPvP)
	auth.GET("/battles", h.BattleHistory)

	auth.GET("/spin", h.SpinStatus)
	auth.POST("/spin", gameRL, h.Spin)

	auth.GET("/tasks", h.ListTasks)
	auth.POST("/tasks/:id/complete", gameRL, h.CompleteTask)
	auth.POST("/tasks/:id/claim", gameRL, h.ClaimTask)

	auth.GET("/leaderboard", h.GetLeaderboard)
}
