package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

// RunConfig holds what Run needs to serve the console until shutdown.
type RunConfig struct {
	Container *Container
	Logger    *slog.Logger
}

// Run serves the container's handler and blocks until ctx is done, a
// SIGINT/SIGTERM arrives or the server fails. The browsers attached to the
// session channel are disconnected before the session store stops.
func Run(ctx context.Context, cfg RunConfig) error {
	c := cfg.Container
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server, errCh, err := StartHTTPServer(logger, c.Handler, c.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("start http server: %w", err)
	}

	runErr := waitForShutdown(ctx, logger, errCh)

	if shutdownErr := ShutdownHTTPServer(ctx, server, c.Config.HTTP.ShutdownTimeout, logger); shutdownErr != nil {
		logger.ErrorContext(ctx, "http server shutdown failed", "error", shutdownErr)
		if runErr == nil {
			runErr = shutdownErr
		}
	}
	c.Close()
	logger.InfoContext(ctx, "console stopped")
	return runErr
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, errCh <-chan error) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.InfoContext(ctx, "received signal, shutting down", "signal", sig.String())
		return nil
	case <-ctx.Done():
		logger.InfoContext(ctx, "context cancelled, shutting down")
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	}
}
