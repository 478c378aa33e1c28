// Package server hosts the zone editor: an HTTP JSON API over a shared edit
// session, a websocket hub pushing zone changes to connected editors, and a
// live map page.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 10 * time.Second

// Run serves srv until the context is cancelled or a termination signal
// (SIGINT, SIGTERM) arrives, then shuts it down gracefully.
//
// Postcondition: the listener is closed when this function returns.
func Run(ctx context.Context, logger *zap.Logger, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("zone editor listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("grace", shutdownGrace))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown incomplete, closing", zap.Error(err))
		return srv.Close()
	}
	logger.Info("shutdown complete")
	return nil
}
