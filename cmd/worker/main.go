// Command worker consumes auto-apply requests from the configured queue and
// runs the scheduled sweep.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jobassist-backend/internal/bootstrap"
	"jobassist-backend/internal/queue"
	"jobassist-backend/internal/scheduler"
	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/telemetry"
	"jobassist-backend/internal/workerproc"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildContext(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer app.Close()

	if err := run(ctx, app); err != nil {
		telemetry.Error("worker.exit", map[string]any{"error": err.Error()})
		app.Close()
		os.Exit(1)
	}
	telemetry.Info("worker.stopped", nil)
}

// run starts the sweep schedule and blocks consuming the queue, or just
// waiting when no queue is configured, until ctx is done.
func run(ctx context.Context, app *bootstrap.App) error {
	cfg := app.Config
	if spec := strings.TrimSpace(cfg.AutoApplyCron); spec != "" && spec != "off" {
		c, err := scheduler.Start(ctx, spec, app.Sweep(true))
		if err != nil {
			return err
		}
		defer c.Stop()
	}

	consumer, ok := app.Queue.(queue.Consumer)
	if !ok {
		telemetry.Info("worker.started", map[string]any{"driver": cfg.QueueDriver, "cron": cfg.AutoApplyCron})
		<-ctx.Done()
		return nil
	}

	concurrency := max(1, cfg.WorkerConcurrency)
	telemetry.Info("worker.started", map[string]any{"driver": cfg.QueueDriver, "concurrency": concurrency})
	err := consumer.Consume(ctx, concurrency, workerproc.Consume(app.AutoApply))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
