package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

const maxImportBatch = 500

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/jobs", h.list)
	rg.GET("/jobs/:id", h.get)
	rg.POST("/jobs", h.create)
	rg.POST("/jobs/import", h.importJobs)
}

func (h *Handler) list(c *gin.Context) {
	filter := Filter{
		Search: strings.TrimSpace(c.Query("search")),
	}
	if loc := strings.TrimSpace(c.Query("location")); loc != "" && loc != "All Locations" {
		filter.Location = loc
	}
	if src := strings.TrimSpace(c.Query("source")); src != "" {
		filter.Sources = []Source{Source(src)}
	}
	limit := MaxLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	list, err := h.Svc.List(c.Request.Context(), filter, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list jobs", nil)
		return
	}
	out := make([]jobResponse, 0, len(list))
	for _, j := range list {
		out = append(out, toResponse(j))
	}
	respond.Items(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.JobIDKey, id)
	job, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load job", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(job))
}

func (h *Handler) create(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	job, err := h.Svc.Create(c.Request.Context(), req.toJob())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create job", nil)
		return
	}
	c.Set(middleware.JobIDKey, job.ID)
	respond.JSON(c, http.StatusCreated, toResponse(job))
}

func (h *Handler) importJobs(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Jobs) == 0 || len(req.Jobs) > maxImportBatch {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobs must contain between 1 and 500 entries", nil)
		return
	}
	batch := make([]Job, 0, len(req.Jobs))
	for _, r := range req.Jobs {
		batch = append(batch, r.toJob())
	}
	res, err := h.Svc.Import(c.Request.Context(), batch)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import jobs", nil)
		return
	}
	respond.JSON(c, http.StatusOK, res)
}
