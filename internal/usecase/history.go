package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, record *entity.SessionRecord) error
}

// History keeps one stored record per client session up to date.
type History struct {
	logger *slog.Logger
	repo   sessionRepo
	now    func() time.Time

	record *entity.SessionRecord
}

func NewHistory(logger *slog.Logger, repo sessionRepo) *History {
	return newHistory(logger, repo, time.Now)
}

func newHistory(logger *slog.Logger, repo sessionRepo, now func() time.Time) *History {
	started := now().UTC()

	return &History{
		logger: logger.With("component", "history"),
		repo:   repo,
		now:    now,

		record: &entity.SessionRecord{
			ID:        uuid.NewString(),
			Phase:     entity.PhaseConnecting,
			StartedAt: started,
			UpdatedAt: started,
		},
	}
}

func (that *History) ID() string {
	return that.record.ID
}

// Record copies the session view into the stored record.
// The last known board is kept when the view no longer carries one.
func (that *History) Record(ctx context.Context, view entity.SessionView) error {
	that.record.PlayerID = view.PlayerID
	that.record.OpponentID = view.OpponentID
	that.record.Phase = view.Phase
	that.record.NextPlayerID = view.NextPlayerID
	that.record.Outcome = view.Outcome
	that.record.WinnerID = winnerOf(view)

	if view.Board != nil {
		that.record.Board = view.Board.Clone()
	}

	return that.save(ctx)
}

func (that *History) CountMove(ctx context.Context) error {
	that.record.Moves++

	return that.save(ctx)
}

func (that *History) save(ctx context.Context) error {
	that.record.UpdatedAt = that.now().UTC()

	if err := that.repo.CreateOrUpdate(ctx, that.record); err != nil {
		return fmt.Errorf("failed to save session %s: %w", that.record.ID, err)
	}

	that.logger.Debug("session recorded", "id", that.record.ID, "phase", that.record.Phase)

	return nil
}

func winnerOf(view entity.SessionView) entity.PlayerID {
	switch view.Outcome {
	case entity.OutcomeWin:
		return view.PlayerID
	case entity.OutcomeLoss:
		return view.OpponentID
	default:
		return ""
	}
}
