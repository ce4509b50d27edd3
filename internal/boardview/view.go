// Package boardview keeps the latest authoritative board and derives from it
// which of the local player's pits can be played right now.
package boardview

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/kalah-client/internal/apperror"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

// turnState is the part of the session tracker the board needs.
type turnState interface {
	LocalID() entity.PlayerID
	OpponentID() entity.PlayerID
	IsMyTurn() bool
}

// Layout is what presentation needs to draw the board.
type Layout struct {
	Own           entity.Pits
	Opponent      entity.Pits
	OwnStore      int
	OpponentStore int
	Selectable    []int
}

type View struct {
	turn  turnState
	board entity.Board
}

func New(turn turnState) *View {
	return &View{turn: turn}
}

// InitializeBoard gives both sides an identical copy of the starting configuration.
func (that *View) InitializeBoard(starting entity.Pits) error {
	if err := starting.Validate(); err != nil {
		return fmt.Errorf("%w: starting configuration: %w", apperror.ErrInvalidBoard, err)
	}

	that.board = entity.NewStartingBoard(that.turn.LocalID(), that.turn.OpponentID(), starting)

	return nil
}

// ApplyBoardSnapshot replaces the held board with a copy of board.
// An invalid snapshot is rejected and the previous one stays in place.
func (that *View) ApplyBoardSnapshot(board entity.Board) error {
	if err := board.ValidateFor(that.turn.LocalID(), that.turn.OpponentID()); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidBoard, err)
	}

	that.board = board.Clone()

	return nil
}

// Clear drops the held board.
func (that *View) Clear() {
	that.board = nil
}

// Board returns a copy of the held board, nil before pairing.
func (that *View) Board() entity.Board {
	return that.board.Clone()
}

// SelectablePits lists the local pits a move may start from right now.
func (that *View) SelectablePits() []int {
	return Selectable(that.board[that.turn.LocalID()], that.turn.IsMyTurn())
}

// RecordMoveAttempt turns a selection into a move intent when the pit is selectable.
// A refusal is a local affordance, not an error.
func (that *View) RecordMoveAttempt(index int) (entity.MoveIntent, bool) {
	if !slices.Contains(that.SelectablePits(), index) {
		return entity.MoveIntent{}, false
	}

	return entity.MoveIntent{Pit: index}, true
}

func (that *View) Layout() Layout {
	own := that.board[that.turn.LocalID()].Clone()
	theirs := that.board[that.turn.OpponentID()].Clone()

	return Layout{
		Own:           own,
		Opponent:      theirs,
		OwnStore:      own.Store(),
		OpponentStore: theirs.Store(),
		Selectable:    Selectable(own, that.turn.IsMyTurn()),
	}
}

// Selectable is the pure turn-gating rule: on the local player's turn,
// every non-empty pit except the store.
func Selectable(own entity.Pits, myTurn bool) []int {
	selectable := []int{}
	if !myTurn {
		return selectable
	}

	for i, count := range own.Playable() {
		if count > 0 {
			selectable = append(selectable, i)
		}
	}

	return selectable
}
