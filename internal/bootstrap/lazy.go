package bootstrap

import (
	"context"
	"sync"

	"jobassist-backend/internal/shared/config"
	"jobassist-backend/internal/shared/telemetry"
)

// Lazy builds the App on first use for Lambda handlers. A failed build is
// not cached, so a later invocation on the same sandbox tries again.
type Lazy struct {
	// Build defaults to BuildContext over config.Load.
	Build func(ctx context.Context) (*App, error)

	mu  sync.Mutex
	app *App
}

// Get returns the built App.
func (l *Lazy) Get(ctx context.Context) (*App, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.app != nil {
		return l.app, nil
	}
	build := l.Build
	if build == nil {
		build = func(ctx context.Context) (*App, error) {
			return BuildContext(ctx, config.Load())
		}
	}
	app, err := build(ctx)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		return nil, err
	}
	l.app = app
	return app, nil
}
