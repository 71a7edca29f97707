package notifications

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.list)
	rg.PATCH("/notifications/read-all", h.markAllRead)
	rg.PATCH("/notifications/:id/read", h.markRead)
	rg.DELETE("/notifications/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	var isRead *bool
	if raw := c.Query("isRead"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "isRead must be true or false", nil)
			return
		}
		isRead = &v
	}
	inbox, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), isRead)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list notifications", nil)
		return
	}
	respond.JSON(c, http.StatusOK, inbox)
}

func (h *Handler) markRead(c *gin.Context) {
	err := h.Svc.MarkRead(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "isRead": true})
}

func (h *Handler) markAllRead(c *gin.Context) {
	n, err := h.Svc.MarkAllRead(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"updated": n})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "notification not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "notification update failed", nil)
}
