package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) SpinStatus(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	st, err := h.svc.Spins.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) Spin(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	res, err := h.svc.Spins.Spin(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
