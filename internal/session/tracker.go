// Package session tracks who the local player is, who the opponent is,
// whose turn it is and which phase the session is in.
package session

import (
	"fmt"

	"github.com/rocketscienceinc/kalah-client/internal/apperror"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

// PhaseListener is told about every phase transition after it happened.
type PhaseListener interface {
	PhaseChanged(from, to entity.Phase)
}

type Tracker struct {
	phase      entity.Phase
	localID    entity.PlayerID
	opponentID entity.PlayerID
	nextID     entity.PlayerID
	outcome    entity.Outcome

	listener PhaseListener
}

// NewTracker returns a tracker in the Connecting phase. listener may be nil.
func NewTracker(listener PhaseListener) *Tracker {
	return &Tracker{
		phase:    entity.PhaseConnecting,
		listener: listener,
	}
}

func (that *Tracker) Phase() entity.Phase { return that.phase }
func (that *Tracker) LocalID() entity.PlayerID { return that.localID }
func (that *Tracker) OpponentID() entity.PlayerID { return that.opponentID }
func (that *Tracker) NextPlayerID() entity.PlayerID { return that.nextID }
func (that *Tracker) Outcome() entity.Outcome { return that.outcome }
func (that *Tracker) IsClosed() bool { return that.phase == entity.PhaseDisconnected }

// IsMyTurn is true only while the game is running and the server awaits the local player.
func (that *Tracker) IsMyTurn() bool {
	return that.phase == entity.PhaseActive && that.nextID == that.localID
}

// OnAssignedIdentity stores the identity the server assigned to this connection.
func (that *Tracker) OnAssignedIdentity(id entity.PlayerID) error {
	if that.IsClosed() {
		return apperror.ErrSessionClosed
	}

	if id.IsEmpty() {
		return apperror.ErrEmptyPlayerID
	}

	if !that.localID.IsEmpty() {
		if that.localID == id {
			return nil
		}

		return fmt.Errorf("%w: have %s, got %s", apperror.ErrIdentityReassigned, that.localID, id)
	}

	if that.phase != entity.PhaseConnecting {
		return fmt.Errorf("%w: identity assigned in phase %s", apperror.ErrProtocolOrdering, that.phase)
	}

	that.localID = id
	that.advance(entity.PhaseWaitingForOpponent)

	return nil
}

// OnPaired stores the opponent and the first player to move, and starts the game.
func (that *Tracker) OnPaired(opponentID, nextPlayerID entity.PlayerID) error {
	if that.IsClosed() {
		return apperror.ErrSessionClosed
	}

	if that.phase != entity.PhaseWaitingForOpponent {
		return fmt.Errorf("%w: pairing in phase %s", apperror.ErrProtocolOrdering, that.phase)
	}

	if opponentID.IsEmpty() {
		return fmt.Errorf("opponent: %w", apperror.ErrEmptyPlayerID)
	}

	if opponentID == that.localID {
		return fmt.Errorf("%w: opponent %s is the local player", apperror.ErrUnknownPlayer, opponentID)
	}

	if nextPlayerID != that.localID && nextPlayerID != opponentID {
		return fmt.Errorf("%w: next player %q", apperror.ErrUnknownPlayer, nextPlayerID)
	}

	that.opponentID = opponentID
	that.nextID = nextPlayerID
	that.advance(entity.PhaseActive)

	return nil
}

// OnTurnUpdate replaces the turn indicator. The phase does not change.
func (that *Tracker) OnTurnUpdate(nextPlayerID entity.PlayerID) error {
	if that.IsClosed() {
		return apperror.ErrSessionClosed
	}

	if that.phase != entity.PhaseActive {
		return fmt.Errorf("%w: turn update in phase %s", apperror.ErrProtocolOrdering, that.phase)
	}

	if nextPlayerID != that.localID && nextPlayerID != that.opponentID {
		return fmt.Errorf("%w: next player %q", apperror.ErrUnknownPlayer, nextPlayerID)
	}

	that.nextID = nextPlayerID

	return nil
}

// OnGameOver finishes the game and records whether the local player won.
func (that *Tracker) OnGameOver(winnerID entity.PlayerID) (entity.Outcome, error) {
	if that.IsClosed() {
		return entity.OutcomeUndecided, apperror.ErrSessionClosed
	}

	if that.phase != entity.PhaseActive {
		return entity.OutcomeUndecided, fmt.Errorf("%w: game over in phase %s", apperror.ErrProtocolOrdering, that.phase)
	}

	that.outcome = entity.DecideOutcome(that.localID, winnerID)
	that.advance(entity.PhaseFinished)

	return that.outcome, nil
}

// OnConnectionLost moves the session to Disconnected.
// It reports false when the session was already disconnected.
func (that *Tracker) OnConnectionLost() bool {
	if that.IsClosed() {
		return false
	}

	that.advance(entity.PhaseDisconnected)

	return true
}

func (that *Tracker) advance(next entity.Phase) {
	if !that.phase.CanAdvanceTo(next) {
		panic(fmt.Sprintf("session: illegal transition %s -> %s", that.phase, next))
	}

	prev := that.phase
	that.phase = next

	if that.listener != nil {
		that.listener.PhaseChanged(prev, next)
	}
}
