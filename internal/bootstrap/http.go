package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultAddr            = "127.0.0.1:8080"
)

// StartHTTPServer listens on addr and serves handler in the background.
// Serve errors other than http.ErrServerClosed are delivered on the returned channel.
func StartHTTPServer(logger *slog.Logger, handler http.Handler, addr string) (*http.Server, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = defaultAddr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	server := &http.Server{
		Addr:        ln.Addr().String(),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// Session channel connections are long lived, so no WriteTimeout.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
			errCh <- serveErr
		}
		close(errCh)
	}()

	return server, errCh, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	if logger != nil {
		logger.InfoContext(ctx, "shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.InfoContext(ctx, "HTTP server stopped")
	}
	return nil
}
