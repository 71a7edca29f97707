// Package metrics keeps process-wide counters and exposes them in the
// Prometheus text format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

type counter struct {
	name, help string
	n          atomic.Uint64
}

// registry holds every metric in exposition order.
var registry []interface{ write(io.Writer) }

func newCounter(name, help string) *counter {
	c := &counter{name: name, help: help}
	registry = append(registry, c)
	return c
}

func (c *counter) write(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.n.Load())
}

var (
	autoApplyRuns         = newCounter("autoapply_runs_total", "Auto-apply engine runs")
	autoApplyCreated      = newCounter("autoapply_applications_created_total", "Applications created by auto-apply")
	autoApplySkipped      = newCounter("autoapply_applications_skipped_total", "Candidates skipped as already applied")
	autoApplyFailed       = newCounter("autoapply_applications_failed_total", "Candidates that failed to persist")
	autoApplyLimitReached = newCounter("autoapply_limit_reached_total", "Runs stopped by the daily limit")
	resumesParsed         = newCounter("resumes_parsed_total", "Resumes parsed")
	notificationsSent     = newCounter("notifications_sent_total", "Emails delivered")
	notificationsFailed   = newCounter("notifications_failed_total", "Email deliveries failed")
	workerReceived        = newCounter("worker_messages_received_total", "Queue messages received")
	workerCompleted       = newCounter("worker_messages_completed_total", "Queue messages processed")
	workerFailed          = newCounter("worker_messages_failed_total", "Queue messages that failed and will be retried")
	workerUnrecoverable   = newCounter("worker_messages_unrecoverable_total", "Queue messages dropped as unrecoverable")
	httpPanics            = newCounter("http_panics_total", "Handler panics recovered")
	httpRateLimited       = newCounter("http_rate_limited_total", "Requests rejected by the rate limiter")

	autoApplyDuration = newHistogram("autoapply_duration_ms", "Auto-apply run duration in milliseconds",
		10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000)
)

func IncAutoApplyRun() { autoApplyRuns.n.Add(1) }

// AddAutoApplyCreated ignores non-positive n.
func AddAutoApplyCreated(n int) {
	if n > 0 {
		autoApplyCreated.n.Add(uint64(n))
	}
}

func IncAutoApplySkipped()      { autoApplySkipped.n.Add(1) }
func IncAutoApplyFailed()       { autoApplyFailed.n.Add(1) }
func IncAutoApplyLimitReached() { autoApplyLimitReached.n.Add(1) }
func IncResumesParsed()         { resumesParsed.n.Add(1) }
func IncNotificationsSent()     { notificationsSent.n.Add(1) }
func IncNotificationsFailed()   { notificationsFailed.n.Add(1) }

func IncWorkerMessagesReceived()    { workerReceived.n.Add(1) }
func IncWorkerMessagesCompleted()   { workerCompleted.n.Add(1) }
func IncWorkerMessagesFailed()      { workerFailed.n.Add(1) }
func IncWorkerMessagesUnrecovered() { workerUnrecoverable.n.Add(1) }

// IncHTTPPanics counts handler panics turned into 500s.
func IncHTTPPanics() { httpPanics.n.Add(1) }

// IncHTTPRateLimited counts requests rejected with 429.
func IncHTTPRateLimited() { httpRateLimited.n.Add(1) }

// ObserveAutoApplyDurationMs records a run duration; negatives count as 0.
func ObserveAutoApplyDurationMs(ms float64) {
	autoApplyDuration.observe(max(ms, 0))
}

// Handler serves GET /metrics.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(Render()))
	}
}

// Render returns every metric in the Prometheus text format.
func Render() string {
	var b strings.Builder
	for _, m := range registry {
		m.write(&b)
	}
	return b.String()
}

// histogram counts observations per bucket; bucket i holds values in
// (bounds[i-1], bounds[i]]. Values above the last bound only reach +Inf.
type histogram struct {
	name, help string
	bounds     []float64

	mu     sync.Mutex
	counts []uint64
	sum    float64
	total  uint64
}

func newHistogram(name, help string, bounds ...float64) *histogram {
	h := &histogram{name: name, help: help, bounds: bounds, counts: make([]uint64, len(bounds))}
	registry = append(registry, h)
	return h
}

func (h *histogram) observe(v float64) {
	i := sort.SearchFloat64s(h.bounds, v)
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < len(h.counts) {
		h.counts[i]++
	}
	h.sum += v
	h.total++
}

func (h *histogram) write(w io.Writer) {
	h.mu.Lock()
	counts := append([]uint64(nil), h.counts...)
	sum, total := h.sum, h.total
	h.mu.Unlock()

	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	var cum uint64
	for i, le := range h.bounds {
		cum += counts[i]
		fmt.Fprintf(w, "%s_bucket{le=%q} %d\n", h.name, num(le), cum)
	}
	fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n%s_sum %s\n%s_count %d\n", h.name, total, h.name, num(sum), h.name, total)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
