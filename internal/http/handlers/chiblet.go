package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListChiblets(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	list, err := h.svc.Chiblets.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chiblets": list})
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *Handler) SetActive(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req setActiveRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Chiblets.SetActive(c.Request.Context(), userID, id, *req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Rename(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req renameRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.svc.Chiblets.Rename(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) LevelUp(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.svc.Chiblets.LevelUp(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type fuseRequest struct {
	ChibletA int64 `json:"chiblet_a" binding:"required"`
	ChibletB int64 `json:"chiblet_b" binding:"required"`
}

func (h *Handler) Fuse(c *gin.Context) {
	userID, ok := mustUser(c)
	if !ok {
		return
	}
	var req fuseRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.svc.Chiblets.Fuse(c.Request.Context(), userID, req.ChibletA, req.ChibletB)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
