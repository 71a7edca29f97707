// Package scheduler runs the periodic auto-apply sweep across users.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"jobassist-backend/internal/autoapply"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/shared/util"
)

const defaultConcurrency = 4

type UserSource interface {
	ListAutoApplyEnabled(ctx context.Context) ([]string, error)
}

type Runner interface {
	Run(ctx context.Context, userID string) (autoapply.Result, error)
}

// Sweep fans auto-apply out over every user with it enabled. With a Queue it
// enqueues one message per user; otherwise it runs Runner in-process with at
// most Concurrency users at a time.
type Sweep struct {
	Users       UserSource
	Runner      Runner
	Queue       queue.Client
	Concurrency int
	Now         func() time.Time
}

// Summary counts the outcome of one sweep.
type Summary struct {
	Users        int
	Dispatched   int64
	Failed       int64
	Applications int64
}

// Run performs one sweep. One user's failure does not stop the others.
func (s *Sweep) Run(ctx context.Context) (Summary, error) {
	if s.Queue == nil && s.Runner == nil {
		return Summary{}, fmt.Errorf("sweep has neither queue nor runner")
	}
	ids, err := s.Users.ListAutoApplyEnabled(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list auto-apply users: %w", err)
	}

	limit := s.Concurrency
	if limit < 1 {
		limit = defaultConcurrency
	}
	requestID := telemetry.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = "sweep-" + util.RandomID()
		ctx = telemetry.WithRequestID(ctx, requestID)
	}

	var dispatched, failed, created atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		userID := id
		g.Go(func() error {
			if err := s.one(gctx, userID, requestID, &created); err != nil {
				failed.Add(1)
				telemetry.Warn("scheduler.sweep.user_failed", map[string]any{
					"request_id": requestID,
					"user_id":    userID,
					"error":      err,
				})
				return nil
			}
			dispatched.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Users: len(ids), Dispatched: dispatched.Load(), Failed: failed.Load(), Applications: created.Load()}
	telemetry.Info("scheduler.sweep.complete", map[string]any{
		"request_id":   requestID,
		"users":        sum.Users,
		"dispatched":   sum.Dispatched,
		"failed":       sum.Failed,
		"applications": sum.Applications,
	})
	return sum, ctx.Err()
}

func (s *Sweep) one(ctx context.Context, userID, requestID string, created *atomic.Int64) error {
	if s.Queue != nil {
		return s.Queue.Send(ctx, queue.NewMessage(userID, requestID, s.now()))
	}
	res, err := s.Runner.Run(ctx, userID)
	if err != nil {
		return err
	}
	created.Add(int64(res.Applications))
	return nil
}

func (s *Sweep) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Start schedules sweep on spec (standard five-field cron syntax) and starts
// the cron runner. Stop the returned Cron to end scheduling.
func Start(ctx context.Context, spec string, sweep *Sweep) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := sweep.Run(ctx); err != nil {
			telemetry.Error("scheduler.sweep.failed", map[string]any{"error": err})
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	c.Start()
	telemetry.Info("scheduler.started", map[string]any{"spec": spec})
	return c, nil
}
