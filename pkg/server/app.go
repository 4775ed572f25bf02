package server

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	xhttp "MacroBot/pkg/http"
	applogger "MacroBot/pkg/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Health(ctx context.Context) error
}

// App runs the webhook HTTP server until interrupted.
type App struct {
	logger     *applogger.Logger
	httpServer *xhttp.Server
	deps       map[string]Pinger
}

// New creates an App. deps are checked once before the server starts
// accepting requests.
func New(logger *applogger.Logger, httpServer *xhttp.Server, deps map[string]Pinger) *App {
	return &App{logger: logger, httpServer: httpServer, deps: deps}
}

// Run blocks until SIGINT/SIGTERM, ctx cancellation, or a server error,
// then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for name, dep := range a.deps {
		if err := dep.Health(ctx); err != nil {
			a.logger.Error("dependency unhealthy", applogger.String("dependency", name), applogger.Error(err))
			return fmt.Errorf("%s health: %w", name, err)
		}
	}

	errCh := a.httpServer.Start()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server error", applogger.Error(err))
			runErr = err
		}
	}

	// ctx is already done here; shutdown gets its own deadline
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	a.logger.Info("shutdown complete")
	return runErr
}
