package analytics

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/resumes"
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
	rg.GET("/analytics", h.overview)
	rg.GET("/analytics/learning-recommendations", h.learning)
}

func (h *Handler) overview(c *gin.Context) {
	out, err := h.Svc.Overview(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute analytics", nil)
		return
	}
	respond.JSON(c, http.StatusOK, out)
}

func (h *Handler) learning(c *gin.Context) {
	out, err := h.Svc.LearningRecommendations(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "no_resume", "no resume found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute learning recommendations", nil)
		return
	}
	respond.JSON(c, http.StatusOK, out)
}
