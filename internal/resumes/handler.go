package resumes

import (
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/latest", h.latest)
	rg.GET("/resumes/:id", h.get)
	rg.GET("/resumes/:id/file", h.download)
	rg.POST("/resumes/:id/customize", h.customize)
	rg.GET("/resumes/:id/versions", h.versions)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	res, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to upload resume", nil)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.JSON(c, http.StatusCreated, toResponse(res, false))
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	out := make([]resumeResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toResponse(r, false))
	}
	respond.Items(c, out)
}

func (h *Handler) latest(c *gin.Context) {
	res, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ResumeIDKey, res.ID)
	respond.JSON(c, http.StatusOK, toResponse(res, true))
}

func (h *Handler) get(c *gin.Context) {
	c.Set(middleware.ResumeIDKey, c.Param("id"))
	res, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(res, true))
}

func (h *Handler) download(c *gin.Context) {
	c.Set(middleware.ResumeIDKey, c.Param("id"))
	res, rc, err := h.Svc.OpenFile(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, res.MimeType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": res.FileName}),
	})
}

func (h *Handler) customize(c *gin.Context) {
	var req customizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobId is required", nil)
		return
	}
	c.Set(middleware.ResumeIDKey, c.Param("id"))
	c.Set(middleware.JobIDKey, req.JobID)

	v, result, err := h.Svc.Customize(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), req.JobID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, customizeResponse{
		VersionID:   v.ID,
		VersionName: v.VersionName,
		Customized:  result,
	})
}

func (h *Handler) versions(c *gin.Context) {
	items, err := h.Svc.Versions(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]versionResponse, 0, len(items))
	for _, v := range items {
		out = append(out, toVersionResponse(v))
	}
	respond.Items(c, out)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no resume found, please upload a resume first", nil)
	case errors.Is(err, ErrNoFile):
		respond.Error(c, http.StatusNotFound, "not_found", "the original file for this resume is not available", nil)
	case errors.Is(err, jobs.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "resume request failed", nil)
	}
}
