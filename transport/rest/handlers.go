package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

type sessionAPI interface {
	View(ctx context.Context) (entity.SessionView, bool)
	Move(ctx context.Context, pit int) bool
}

type handlers struct {
	logger  *slog.Logger
	session sessionAPI
}

func newHandlers(logger *slog.Logger, session sessionAPI) *handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

type moveResponse struct {
	Pit  int  `json:"pit"`
	Sent bool `json:"sent"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

func (that *handlers) Session(w http.ResponseWriter, r *http.Request) {
	view, ok := that.session.View(r.Context())
	if !ok {
		that.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "session is closed"})
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// Move reports whether the pit went out as a move. A refused pit is not an error.
func (that *handlers) Move(w http.ResponseWriter, r *http.Request) {
	pit, err := strconv.Atoi(chi.URLParam(r, "pit"))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pit must be an integer"})
		return
	}

	sent := that.session.Move(r.Context(), pit)
	that.writeJSON(w, http.StatusOK, moveResponse{Pit: pit, Sent: sent})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
