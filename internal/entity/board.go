package entity

import (
	"errors"
	"fmt"
)

const (
	DefaultPits  = 6
	DefaultSeeds = 6
)

var (
	ErrNegativeCount = errors.New("pit count is negative")
	ErrShortSide     = errors.New("side has no playable pit")
	ErrSideMismatch  = errors.New("sides have different lengths")
	ErrUnknownSide   = errors.New("board side belongs to an unknown player")
	ErrMissingSide   = errors.New("board side is missing")
)

// Pits is one side of the board: playable pits followed by the store.
type Pits []int

// NewPits returns a side with the given number of playable pits holding seeds each and an empty store.
func NewPits(pits, seeds int) Pits {
	side := make(Pits, pits+1)
	for i := range pits {
		side[i] = seeds
	}

	return side
}

func (that Pits) StoreIndex() int {
	return len(that) - 1
}

func (that Pits) Store() int {
	if len(that) == 0 {
		return 0
	}

	return that[that.StoreIndex()]
}

// Playable returns the pits without the store.
func (that Pits) Playable() Pits {
	if len(that) == 0 {
		return nil
	}

	return that[:that.StoreIndex()]
}

func (that Pits) IsStore(index int) bool {
	return index == that.StoreIndex()
}

func (that Pits) Clone() Pits {
	if that == nil {
		return nil
	}

	return append(Pits(nil), that...)
}

func (that Pits) Validate() error {
	if len(that) < 2 {
		return fmt.Errorf("%w: %d values", ErrShortSide, len(that))
	}

	for i, count := range that {
		if count < 0 {
			return fmt.Errorf("%w: pit %d holds %d", ErrNegativeCount, i, count)
		}
	}

	return nil
}

// Board maps each player to their side of the board.
type Board map[PlayerID]Pits

// NewStartingBoard builds the uniform starting configuration for both players.
func NewStartingBoard(local, opponent PlayerID, starting Pits) Board {
	return Board{
		local:    starting.Clone(),
		opponent: starting.Clone(),
	}
}

func (that Board) Clone() Board {
	if that == nil {
		return nil
	}

	clone := make(Board, len(that))
	for id, pits := range that {
		clone[id] = pits.Clone()
	}

	return clone
}

// ValidateFor checks that the board holds exactly the two given sides with equal, valid layouts.
func (that Board) ValidateFor(local, opponent PlayerID) error {
	for id := range that {
		if id != local && id != opponent {
			return fmt.Errorf("%w: %s", ErrUnknownSide, id)
		}
	}

	own, ok := that[local]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingSide, local)
	}

	theirs, ok := that[opponent]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingSide, opponent)
	}

	if err := own.Validate(); err != nil {
		return fmt.Errorf("side %s: %w", local, err)
	}

	if err := theirs.Validate(); err != nil {
		return fmt.Errorf("side %s: %w", opponent, err)
	}

	if len(own) != len(theirs) {
		return fmt.Errorf("%w: %d and %d", ErrSideMismatch, len(own), len(theirs))
	}

	return nil
}
