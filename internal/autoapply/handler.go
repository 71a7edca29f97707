package autoapply

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/shared/server/middleware"
	"jobassist-backend/internal/shared/server/respond"
	"jobassist-backend/internal/shared/telemetry"
)

type runner interface {
	Run(ctx context.Context, userID string) (Result, error)
}

type Handler struct {
	Engine runner
	// Queue is nil when no queue driver is configured.
	Queue queue.Client
}

func NewHandler(engine *Engine, q queue.Client) *Handler {
	return &Handler{Engine: engine, Queue: q}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auto-apply/run", h.run)
	rg.POST("/auto-apply/enqueue", h.enqueue)
}

func (h *Handler) run(c *gin.Context) {
	res, err := h.Engine.Run(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrAutoApplyDisabled):
			respond.Error(c, http.StatusBadRequest, "auto_apply_disabled", "Auto-apply not enabled", nil)
		case errors.Is(err, ErrNoResumeFound):
			respond.Error(c, http.StatusNotFound, "no_resume", "No resume found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "auto-apply failed", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, res)
}

func (h *Handler) enqueue(c *gin.Context) {
	if h.Queue == nil {
		respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "auto-apply queue is not configured", nil)
		return
	}
	ctx := c.Request.Context()
	msg := queue.NewMessage(middleware.UserIDFromContext(c), middleware.RequestIDFromContext(c), time.Now())
	if err := h.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("autoapply.enqueue.failed", map[string]any{
			"request_id": msg.RequestID,
			"user_id":    msg.UserID,
			"error":      err,
		})
		respond.Error(c, http.StatusBadGateway, "queue_error", "failed to enqueue auto-apply", nil)
		return
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"queued": true, "requestId": msg.RequestID})
}
