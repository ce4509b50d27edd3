package entity

import "time"

// SessionView is a read-only picture of the client session at one point in time.
type SessionView struct {
	Phase        Phase    `json:"phase"`
	PlayerID     PlayerID `json:"player_id,omitempty"`
	OpponentID   PlayerID `json:"opponent_id,omitempty"`
	NextPlayerID PlayerID `json:"next_player_id,omitempty"`
	MyTurn       bool     `json:"my_turn"`
	Board        Board    `json:"board,omitempty"`
	Selectable   []int    `json:"selectable"`
	Outcome      Outcome  `json:"outcome"`
}

// SessionRecord is the stored history entry of one session.
type SessionRecord struct {
	ID           string    `json:"id"`
	PlayerID     PlayerID  `json:"player_id,omitempty"`
	OpponentID   PlayerID  `json:"opponent_id,omitempty"`
	Phase        Phase     `json:"phase"`
	NextPlayerID PlayerID  `json:"next_player_id,omitempty"`
	Board        Board     `json:"board,omitempty"`
	Outcome      Outcome   `json:"outcome"`
	WinnerID     PlayerID  `json:"winner_id,omitempty"`
	Moves        int       `json:"moves"`
	StartedAt    time.Time `json:"started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
