// Package server exposes the service over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ALT-F4-LLC/softdesk/internal/service"
)

// NewRouter builds the gin engine with logging, recovery and every route
// from the route table.
func NewRouter(svc *service.Service) *gin.Engine {
	router := gin.New()
	router.Use(ZLogMiddleware(), gin.Recovery())

	h := &handlers{svc: svc}
	for _, r := range h.routes() {
		if r.public {
			router.Handle(r.method, r.path, r.handle)
			continue
		}
		router.Handle(r.method, r.path, h.requireAuth, r.handle)
	}
	return router
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
