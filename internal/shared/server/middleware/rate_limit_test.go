package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobassist-backend/internal/shared/telemetry"
)

func limitedRouter(t *testing.T, limiter *RateLimiter, rules map[string]RateLimitRule, groupFor func(*gin.Context) string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	prev := telemetry.SetOutput(io.Discard)
	t.Cleanup(func() { telemetry.SetOutput(prev) })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "guest:rl")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{Rules: rules, GroupFor: groupFor, Limiter: limiter}))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/api/v1/jobs", ok)
	r.POST("/api/v1/auto-apply/run", ok)
	r.GET("/api/v1/unlimited", ok)
	return r
}

func hit(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRateLimitGroupsAreIndependent(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	groupFor := func(c *gin.Context) string {
		switch c.FullPath() {
		case "/api/v1/auto-apply/run":
			return "AUTO_APPLY"
		case "/api/v1/unlimited":
			return "NONE"
		}
		return ""
	}
	r := limitedRouter(t, limiter, map[string]RateLimitRule{
		"DEFAULT":    {Rate: 5, Burst: 10},
		"AUTO_APPLY": {Rate: 0.1, Burst: 1},
	}, groupFor)

	if rec := hit(r, http.MethodPost, "/api/v1/auto-apply/run"); rec.Code != http.StatusNoContent {
		t.Fatalf("first auto-apply = %d", rec.Code)
	}
	if rec := hit(r, http.MethodPost, "/api/v1/auto-apply/run"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second auto-apply = %d, want 429", rec.Code)
	}
	for i := 0; i < 5; i++ {
		if rec := hit(r, http.MethodGet, "/api/v1/jobs"); rec.Code != http.StatusNoContent {
			t.Fatalf("jobs request %d = %d", i, rec.Code)
		}
	}
	for i := 0; i < 20; i++ {
		if rec := hit(r, http.MethodGet, "/api/v1/unlimited"); rec.Code != http.StatusNoContent {
			t.Fatalf("group without a rule was limited")
		}
	}
}

func TestRateLimitResponse(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	r := limitedRouter(t, limiter, map[string]RateLimitRule{"DEFAULT": {Rate: 0.5, Burst: 1}}, nil)

	hit(r, http.MethodGet, "/api/v1/jobs")
	rec := hit(r, http.MethodGet, "/api/v1/jobs")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q, want 2", got)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Group        string `json:"group"`
				RetryAfterMs int64  `json:"retryAfterMs"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "rate_limited" || body.Error.Details.Group != "DEFAULT" || body.Error.Details.RetryAfterMs != 2000 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("first take should pass")
	}
	if ok, wait := limiter.Allow("k", rule); ok || wait <= 0 {
		t.Fatalf("second take should wait, got ok=%v wait=%s", ok, wait)
	}
	now = now.Add(1100 * time.Millisecond)
	if ok, _ := limiter.Allow("k", rule); !ok {
		t.Fatalf("take after refill should pass")
	}
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	limiter.Allow("a", rule)
	limiter.Allow("b", rule)
	if limiter.Len() != 2 {
		t.Fatalf("Len = %d", limiter.Len())
	}
	now = now.Add(bucketIdleTTL + time.Minute)
	limiter.Allow("c", rule)
	if limiter.Len() != 1 {
		t.Fatalf("idle buckets kept, Len = %d", limiter.Len())
	}
}

func TestZeroRuleNeverLimits(t *testing.T) {
	limiter := NewRateLimiter(nil)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("k", RateLimitRule{}); !ok {
			t.Fatalf("zero rule limited on take %d", i)
		}
	}
}
