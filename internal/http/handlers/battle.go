package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Stages(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	stages, err := h.svc.Battles.Stages(c.Request.Context(), userID, queryInt(c, "count"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stages": stages})
}

func (h *Handler) FightStage(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	res, err := h.svc.Battles.FightStage(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type findOpponentRequest struct {
	ChibletID int64 `json:"chiblet_id" binding:"required"`
}

func (h *Handler) FindOpponent(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	var req findOpponentRequest
	if !bind(c, &req) {
		return
	}
	opp, err := h.svc.Battles.FindOpponent(c.Request.Context(), userID, req.ChibletID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opp)
}

type pvpRequest struct {
	ChibletID  int64 `json:"chiblet_id" binding:"required"`
	OpponentID int64 `json:"opponent_id" binding:"required"`
}

func (h *Handler) FightPvP(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	var req pvpRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.Battles.FightPvP(c.Request.Context(), userID, req.ChibletID, req.OpponentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) BattleHistory(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	list, err := h.svc.Battles.History(c.Request.Context(), userID, queryInt(c, "limit"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"battles": list})
}
