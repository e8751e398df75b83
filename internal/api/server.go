package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Serve runs an HTTP server for s on ln until ctx is cancelled, then shuts
// it down gracefully within shutdownTimeout.
func Serve(ctx context.Context, ln net.Listener, s *Server, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 10 * time.Second,
		// Request contexts end with ctx, which closes open event streams.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.Info("http api shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			srv.Close()
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
