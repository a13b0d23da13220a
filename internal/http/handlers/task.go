package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTasks(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	tasks, err := h.svc.Tasks.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	done, err := h.svc.Tasks.Complete(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, done)
}

func (h *Handler) ClaimTask(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.svc.Tasks.Claim(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
