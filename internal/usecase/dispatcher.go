package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/kalah-client/internal/apperror"
	"github.com/rocketscienceinc/kalah-client/internal/boardview"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
	"github.com/rocketscienceinc/kalah-client/internal/protocol"
)

type sessionTracker interface {
	OnAssignedIdentity(id entity.PlayerID) error
	OnPaired(opponentID, nextPlayerID entity.PlayerID) error
	OnTurnUpdate(nextPlayerID entity.PlayerID) error
	OnGameOver(winnerID entity.PlayerID) (entity.Outcome, error)
	OnConnectionLost() bool

	Phase() entity.Phase
	LocalID() entity.PlayerID
	OpponentID() entity.PlayerID
	NextPlayerID() entity.PlayerID
	IsMyTurn() bool
	Outcome() entity.Outcome
}

type boardView interface {
	InitializeBoard(starting entity.Pits) error
	ApplyBoardSnapshot(board entity.Board) error
	Clear()
	Board() entity.Board
	SelectablePits() []int
	RecordMoveAttempt(index int) (entity.MoveIntent, bool)
	Layout() boardview.Layout
}

type moveSender interface {
	Send(ctx context.Context, payload []byte) error
}

type notifier interface {
	Identity(local, opponent, next entity.PlayerID)
	// BoardReset shows the starting board laid out at pairing, BoardChanged a board the server sent.
	BoardReset(layout boardview.Layout)
	BoardChanged(layout boardview.Layout)
	IllegalMove(reason string)
	InvalidEvent(raw []byte)
	MoveSent(pit int)
	GameOver(outcome entity.Outcome)
	ConnectionLost(cause error)
}

// HistoryRecorder stores session progress. A nil recorder stores nothing.
type HistoryRecorder interface {
	Record(ctx context.Context, view entity.SessionView) error
	CountMove(ctx context.Context) error
}

// Dispatcher routes every inbound server message to the tracker and the board,
// and turns accepted pit selections into outbound moves. It keeps no state of its own.
type Dispatcher struct {
	logger *slog.Logger

	tracker  sessionTracker
	board    boardView
	sender   moveSender
	notifier notifier
	history  HistoryRecorder

	starting entity.Pits
}

func NewDispatcher(
	logger *slog.Logger,
	tracker sessionTracker,
	board boardView,
	sender moveSender,
	notifier notifier,
	history HistoryRecorder,
	starting entity.Pits,
) *Dispatcher {
	if history == nil {
		history = nopHistory{}
	}

	return &Dispatcher{
		logger: logger.With("component", "dispatcher"),

		tracker:  tracker,
		board:    board,
		sender:   sender,
		notifier: notifier,
		history:  history,

		starting: starting.Clone(),
	}
}

// HandleMessage decodes a raw server message and dispatches it.
// Unrecognized messages are reported and the session carries on.
func (that *Dispatcher) HandleMessage(ctx context.Context, data []byte) error {
	if that.Closed() {
		return apperror.ErrSessionClosed
	}

	event, err := protocol.Decode(data)
	if err != nil {
		that.notifier.InvalidEvent(data)
		return err
	}

	return that.Dispatch(ctx, event)
}

func (that *Dispatcher) Dispatch(ctx context.Context, event protocol.Event) error {
	if that.Closed() {
		return apperror.ErrSessionClosed
	}

	var err error
	switch e := event.(type) {
	case protocol.WaitingForOpponent:
		err = that.onWaitingForOpponent(ctx, e)
	case protocol.ReadyToStart:
		err = that.onReadyToStart(ctx, e)
	case protocol.BoardState:
		err = that.onBoardState(ctx, e)
	case protocol.IllegalMove:
		that.notifier.IllegalMove(e.Reason)
	case protocol.GameOver:
		err = that.onGameOver(ctx, e)
	default:
		err = fmt.Errorf("%w: %T", apperror.ErrUnrecognizedMessage, event)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", event.Type(), err)
	}

	return nil
}

func (that *Dispatcher) onWaitingForOpponent(ctx context.Context, event protocol.WaitingForOpponent) error {
	if err := that.tracker.OnAssignedIdentity(event.PlayerID); err != nil {
		return err
	}

	that.notifier.Identity(that.tracker.LocalID(), "", "")
	that.record(ctx)

	return nil
}

func (that *Dispatcher) onReadyToStart(ctx context.Context, event protocol.ReadyToStart) error {
	if err := that.tracker.OnPaired(event.OpponentID, event.NextPlayerID); err != nil {
		return err
	}

	if err := that.board.InitializeBoard(that.starting); err != nil {
		return err
	}

	that.notifier.Identity(that.tracker.LocalID(), that.tracker.OpponentID(), that.tracker.NextPlayerID())
	that.notifier.BoardReset(that.board.Layout())
	that.record(ctx)

	return nil
}

func (that *Dispatcher) onBoardState(ctx context.Context, event protocol.BoardState) error {
	prevNext := that.tracker.NextPlayerID()

	if err := that.tracker.OnTurnUpdate(event.NextPlayerID); err != nil {
		return err
	}

	if err := that.board.ApplyBoardSnapshot(event.Board); err != nil {
		// the previous turn indicator was valid, so restoring it cannot fail
		_ = that.tracker.OnTurnUpdate(prevNext)
		return err
	}

	that.notifier.Identity(that.tracker.LocalID(), that.tracker.OpponentID(), that.tracker.NextPlayerID())
	that.notifier.BoardChanged(that.board.Layout())
	that.record(ctx)

	return nil
}

func (that *Dispatcher) onGameOver(ctx context.Context, event protocol.GameOver) error {
	outcome, err := that.tracker.OnGameOver(event.WinnerID)
	if err != nil {
		return err
	}

	that.notifier.GameOver(outcome)
	that.record(ctx)
	that.board.Clear()

	return nil
}

// AttemptMove sends the pit as a move when the board allows it.
// It reports whether a move went out; refusals are not errors.
func (that *Dispatcher) AttemptMove(ctx context.Context, pit int) (bool, error) {
	intent, ok := that.board.RecordMoveAttempt(pit)
	if !ok {
		that.logger.Debug("move suppressed", "pit", pit, "phase", that.tracker.Phase())
		return false, nil
	}

	payload, err := protocol.EncodeMove(intent)
	if err != nil {
		return false, err
	}

	if err = that.sender.Send(ctx, payload); err != nil {
		that.ConnectionLost(ctx, err)
		return false, fmt.Errorf("failed to send move: %w", err)
	}

	that.notifier.MoveSent(intent.Pit)

	if err = that.history.CountMove(ctx); err != nil {
		that.logger.Warn("failed to count move", "error", err)
	}

	return true, nil
}

// ConnectionLost ends the session. Later calls do nothing.
func (that *Dispatcher) ConnectionLost(ctx context.Context, cause error) {
	if !that.tracker.OnConnectionLost() {
		return
	}

	that.notifier.ConnectionLost(cause)
	that.record(ctx)
	that.board.Clear()
}

func (that *Dispatcher) Closed() bool {
	return that.tracker.Phase() == entity.PhaseDisconnected
}

// Snapshot describes the session for presentation and the status API.
func (that *Dispatcher) Snapshot() entity.SessionView {
	return entity.SessionView{
		Phase:        that.tracker.Phase(),
		PlayerID:     that.tracker.LocalID(),
		OpponentID:   that.tracker.OpponentID(),
		NextPlayerID: that.tracker.NextPlayerID(),
		MyTurn:       that.tracker.IsMyTurn(),
		Board:        that.board.Board(),
		Selectable:   that.board.SelectablePits(),
		Outcome:      that.tracker.Outcome(),
	}
}

func (that *Dispatcher) record(ctx context.Context) {
	if err := that.history.Record(ctx, that.Snapshot()); err != nil {
		that.logger.Warn("failed to record session history", "error", err)
	}
}

type nopHistory struct{}

func (nopHistory) Record(context.Context, entity.SessionView) error { return nil }
func (nopHistory) CountMove(context.Context) error { return nil }
