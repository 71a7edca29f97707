package skillgaps

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/skillgaps/gap"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/skill-gaps", h.analyze)
	rg.GET("/skill-gaps", h.history)
}

type analyzeRequest struct {
	JobID string `json:"jobId"`
}

type analysisResponse struct {
	ID              string               `json:"id"`
	JobID           string               `json:"jobId"`
	MatchingSkills  []string             `json:"matchingSkills"`
	MissingSkills   []string             `json:"missingSkills"`
	MatchScore      int                  `json:"matchScore"`
	Recommendations []gap.Recommendation `json:"recommendations"`
	CreatedAt       time.Time            `json:"createdAt"`
}

func toResponse(a Analysis) analysisResponse {
	out := analysisResponse{
		ID:              a.ID,
		JobID:           a.JobID,
		MatchingSkills:  a.MatchingSkills,
		MissingSkills:   a.MissingSkills,
		MatchScore:      a.MatchScore,
		Recommendations: a.Recommendations,
		CreatedAt:       a.CreatedAt,
	}
	if out.MatchingSkills == nil {
		out.MatchingSkills = []string{}
	}
	if out.MissingSkills == nil {
		out.MissingSkills = []string{}
	}
	if out.Recommendations == nil {
		out.Recommendations = []gap.Recommendation{}
	}
	return out
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required", nil)
		return
	}
	c.Set(middleware.JobIDKey, req.JobID)
	a, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), req.JobID)
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "no_resume", "no resume found, please upload a resume first", nil)
		case errors.Is(err, jobs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "skill gap analysis failed", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(a))
}

func (h *Handler) history(c *gin.Context) {
	items, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), HistoryLimit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list skill gap analyses", nil)
		return
	}
	out := make([]analysisResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toResponse(a))
	}
	respond.Items(c, out)
}
