package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me returns the player profile with team summary and pending idle rewards.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	p, err := h.svc.Progress.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ClaimIdle(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	res, err := h.svc.Progress.ClaimIdle(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
