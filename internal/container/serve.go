package container

import (
	"context"
	"net"
	"net/http"
	"time"
)

// ListenAndServe runs the HTTP server until ctx is cancelled, then drains
// in-flight requests within the configured shutdown timeout
func (c *Container) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", c.Config.Server.Port),
		Handler:           c.Server(),
		ReadTimeout:       c.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      c.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("[Server] listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Config.Server.ShutdownTimeout)
	defer cancel()
	// SSE streams never finish on their own
	c.SSEHub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}
	return nil
}
