package handlers

import (
	"net/http"

	"chiblets_lite/internal/telegram"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
	// DevUser is honoured only in DEV_MODE, for running outside Telegram.
	DevUser *telegram.WebAppUser `json:"dev_user,omitempty"`
}

func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()

	if h.devMode && req.DevUser != nil && req.DevUser.ID != 0 {
		res, err := h.svc.Auth.LoginAs(ctx, *req.DevUser)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}

	if req.InitData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data is required"})
		return
	}
	res, err := h.svc.Auth.Login(ctx, req.InitData)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
