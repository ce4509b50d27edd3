package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// NewRouter exposes the session to local tools: health, current view and moves.
func NewRouter(logger *slog.Logger, session sessionAPI) http.Handler {
	h := newHandlers(logger, session)

	r := chi.NewRouter()
	r.Get("/ping", h.Ping)
	r.Get("/session", h.Session)
	r.Post("/moves/{pit}", h.Move)

	return r
}

// Start serves the router on port until ctx is cancelled.
func Start(ctx context.Context, logger *slog.Logger, port string, session sessionAPI) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(logger, session),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down status server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
