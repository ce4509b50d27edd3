package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

type mockSession struct {
	mock.Mock
}

func (that *mockSession) View(ctx context.Context) (entity.SessionView, bool) {
	args := that.Called(ctx)
	return args.Get(0).(entity.SessionView), args.Bool(1)
}

func (that *mockSession) Move(ctx context.Context, pit int) bool {
	args := that.Called(ctx, pit)
	return args.Bool(0)
}

func newTestRouter(session sessionAPI) http.Handler {
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), session)
}

func TestPing(t *testing.T) {
	router := newTestRouter(&mockSession{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestSession(t *testing.T) {
	t.Run("Returns the current view", func(t *testing.T) {
		// Given: an active session where A moves
		session := &mockSession{}
		session.On("View", mock.Anything).Return(entity.SessionView{
			Phase:        entity.PhaseActive,
			PlayerID:     "A",
			OpponentID:   "B",
			NextPlayerID: "A",
			MyTurn:       true,
			Board:        entity.Board{"A": {6, 6, 6, 6, 6, 6, 0}, "B": {6, 6, 6, 6, 6, 6, 0}},
			Selectable:   []int{0, 1, 2, 3, 4, 5},
		}, true).Once()

		// When: the view is requested
		rec := httptest.NewRecorder()
		newTestRouter(session).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

		// Then: it is served as JSON
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "active", body["phase"])
		assert.Equal(t, "A", body["player_id"])
		assert.Equal(t, true, body["my_turn"])
		session.AssertExpectations(t)
	})

	t.Run("Closed session", func(t *testing.T) {
		session := &mockSession{}
		session.On("View", mock.Anything).Return(entity.SessionView{}, false).Once()

		rec := httptest.NewRecorder()
		newTestRouter(session).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMove(t *testing.T) {
	t.Run("Selectable pit is sent", func(t *testing.T) {
		session := &mockSession{}
		session.On("Move", mock.Anything, 3).Return(true).Once()

		rec := httptest.NewRecorder()
		newTestRouter(session).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/moves/3", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"pit":3,"sent":true}`, rec.Body.String())
		session.AssertExpectations(t)
	})

	t.Run("Refused pit is reported, not failed", func(t *testing.T) {
		session := &mockSession{}
		session.On("Move", mock.Anything, 6).Return(false).Once()

		rec := httptest.NewRecorder()
		newTestRouter(session).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/moves/6", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"pit":6,"sent":false}`, rec.Body.String())
	})

	t.Run("Non-numeric pit", func(t *testing.T) {
		session := &mockSession{}

		rec := httptest.NewRecorder()
		newTestRouter(session).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/moves/store", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		session.AssertNotCalled(t, "Move", mock.Anything, mock.Anything)
	})
}
