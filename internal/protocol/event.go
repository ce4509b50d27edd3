// Package protocol describes the messages exchanged with the game server.
package protocol

import "github.com/rocketscienceinc/kalah-client/internal/entity"

const (
	TypeWaitingForOpponent = "WaitingForOpponent"
	TypeReadyToStart       = "ReadyToStart"
	TypeIllegalMove        = "IllegalMove"
	TypeBoardState         = "BoardState"
	TypeGameOver           = "GameOver"
)

// Event is one inbound server message. The set of implementations is closed.
type Event interface {
	Type() string
	isEvent()
}

type WaitingForOpponent struct {
	PlayerID entity.PlayerID `json:"playerId"`
}

type ReadyToStart struct {
	OpponentID   entity.PlayerID `json:"opponentId"`
	NextPlayerID entity.PlayerID `json:"nextPlayerId"`
}

type BoardState struct {
	Board        entity.Board    `json:"board"`
	NextPlayerID entity.PlayerID `json:"nextPlayerId"`
}

type IllegalMove struct {
	Reason string `json:"reason"`
}

type GameOver struct {
	WinnerID entity.PlayerID `json:"winnerId"`
}

func (WaitingForOpponent) Type() string { return TypeWaitingForOpponent }
func (ReadyToStart) Type() string { return TypeReadyToStart }
func (BoardState) Type() string { return TypeBoardState }
func (IllegalMove) Type() string { return TypeIllegalMove }
func (GameOver) Type() string { return TypeGameOver }

func (WaitingForOpponent) isEvent() {}
func (ReadyToStart) isEvent() {}
func (BoardState) isEvent() {}
func (IllegalMove) isEvent() {}
func (GameOver) isEvent() {}
