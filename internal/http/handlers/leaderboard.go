package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the top players by wCHIBI and the caller's rank.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	lb, err := h.svc.Leaderboard.Get(c.Request.Context(), userID, queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lb)
}

// GameConfig exposes the active balance tables to the client.
func (h *Handler) GameConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Calc.Tables())
}
