package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"chiblets_lite/internal/game"
	"chiblets_lite/internal/http/middleware"
	"chiblets_lite/internal/logger"
	"chiblets_lite/internal/service"

	"github.com/gin-gonic/gin"
)

// Services is everything the API handlers call into.
type Services struct {
	Auth        *service.AuthService
	Chiblets    *service.ChibletService
	Battles     *service.BattleService
	Progress    *service.ProgressService
	Spins       *service.SpinService
	Tasks       *service.TaskService
	Leaderboard *service.LeaderboardService
	Calc        game.Calc
}

type Handler struct {
	svc     Services
	devMode bool
}

func NewHandler(s Services, devMode bool) *Handler {
	return &Handler{svc: s, devMode: devMode}
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

func mustUser(c *gin.Context) (int64, bool) {
	id, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return id, ok
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// queryInt returns 0 for a missing or malformed value so services apply
// their own defaults.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrDailySpinLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, game.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrDomainRule):
		return http.StatusConflict
	case errors.Is(err, game.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as {"error": ...}. Internal failures are
// logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
		msg = http.StatusText(status)
	}
	c.JSON(status, gin.H{"error": msg})
}
