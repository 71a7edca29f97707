package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/jobs"
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
	rg.POST("/applications", h.apply)
	rg.GET("/applications", h.list)
	rg.GET("/applications/:id", h.get)
	rg.PATCH("/applications/:id", h.update)
	rg.DELETE("/applications/:id", h.delete)
}

func (h *Handler) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.JobIDKey, req.JobID)
	a, err := h.Svc.Apply(c.Request.Context(), middleware.UserIDFromContext(c), req.JobID, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ApplicationIDKey, a.ID)
	respond.JSON(c, http.StatusCreated, toResponse(Detail{Application: a}))
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), Status(c.Query("status")))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]applicationResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toResponse(d))
	}
	respond.Items(c, out)
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	d, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(d))
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	a, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(Detail{Application: a}))
}

func (h *Handler) delete(c *gin.Context) {
	c.Set(middleware.ApplicationIDKey, c.Param("id"))
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrAlreadyApplied), errors.Is(err, ErrDuplicateKey):
		respond.Error(c, http.StatusConflict, "already_applied", "already applied to this job", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusBadRequest, "no_resume", "please upload a resume first", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "application request failed", nil)
	}
}
