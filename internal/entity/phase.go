package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPhase   = errors.New("unknown phase")
	ErrUnknownOutcome = errors.New("unknown outcome")
)

type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseWaitingForOpponent
	PhaseActive
	PhaseFinished
	PhaseDisconnected
)

var phaseNames = map[Phase]string{
	PhaseConnecting:         "connecting",
	PhaseWaitingForOpponent: "waiting_for_opponent",
	PhaseActive:             "active",
	PhaseFinished:           "finished",
	PhaseDisconnected:       "disconnected",
}

func (that Phase) String() string {
	if name, ok := phaseNames[that]; ok {
		return name
	}

	return "unknown"
}

// MarshalText keeps phases readable in logs and JSON.
func (that Phase) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*that = phase
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownPhase, text)
}

// CanAdvanceTo reports whether next is a legal successor of the phase.
// Disconnected is reachable from everywhere and leads nowhere.
func (that Phase) CanAdvanceTo(next Phase) bool {
	if that == PhaseDisconnected {
		return false
	}

	if next == PhaseDisconnected {
		return true
	}

	switch that {
	case PhaseConnecting:
		return next == PhaseWaitingForOpponent
	case PhaseWaitingForOpponent:
		return next == PhaseActive
	case PhaseActive:
		return next == PhaseFinished
	default:
		return false
	}
}

type Outcome int

const (
	OutcomeUndecided Outcome = iota
	OutcomeWin
	OutcomeLoss
	// OutcomeNoWinner is used when the server ends the game without naming a winner.
	OutcomeNoWinner
)

func (that Outcome) String() string {
	switch that {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeNoWinner:
		return "no_winner"
	default:
		return "undecided"
	}
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Outcome) UnmarshalText(text []byte) error {
	for _, outcome := range []Outcome{OutcomeUndecided, OutcomeWin, OutcomeLoss, OutcomeNoWinner} {
		if outcome.String() == string(text) {
			*that = outcome
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrUnknownOutcome, text)
}

// DecideOutcome compares the declared winner with the local player.
func DecideOutcome(local, winner PlayerID) Outcome {
	switch {
	case winner.IsEmpty():
		return OutcomeNoWinner
	case winner == local:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}
