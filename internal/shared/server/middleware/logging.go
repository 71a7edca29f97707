package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/telemetry"
)

// Entity IDs handlers may set on the gin context for request logs.
const (
	ResumeIDKey      = "resumeId"
	JobIDKey         = "jobId"
	ApplicationIDKey = "applicationId"
)

var entityFields = [...]struct{ key, field string }{
	{ResumeIDKey, "resume_id"},
	{JobIDKey, "job_id"},
	{ApplicationIDKey, "application_id"},
}

// Logging writes one line per request once the handler chain returns.
// Server errors log at error level, client errors at warn.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"bytes":       c.Writer.Size(),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if userID := c.GetString(userIDKey); userID != "" {
			fields["user_id"] = userID
			fields["is_guest"] = c.GetBool(isGuestKey)
		}
		for _, e := range entityFields {
			if v := c.GetString(e.key); v != "" {
				fields[e.field] = v
			}
		}

		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
