package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/justestif/go-movie-mood/internal/logging"
)

// httpServer is the part of *http.Server the supervised service drives.
type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// httpService adapts an http.Server to suture.Service.
type httpService struct {
	server          httpServer
	shutdownTimeout time.Duration

	mu  sync.Mutex
	err error
}

func newHTTPService(server httpServer, shutdownTimeout time.Duration) *httpService {
	return &httpService{server: server, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. A listener failure stops the whole tree
// since restarting cannot fix a bad address or a port in use.
func (h *httpService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err == nil {
			return nil
		}
		h.mu.Lock()
		h.err = fmt.Errorf("http server failed: %w", err)
		h.mu.Unlock()
		logging.Error().Err(err).Msg("http server failed")
		return suture.ErrTerminateSupervisorTree

	case <-ctx.Done():
		logging.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()

		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// failure returns the listener error that terminated the service, if any.
func (h *httpService) failure() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *httpService) String() string {
	return "http-server"
}
