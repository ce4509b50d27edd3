package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPlayerID = errors.New("player id must be a string or an integer")

// PlayerID is the opaque identity the server assigns to every connected session.
// Servers may send it as a JSON string or a JSON integer; integers keep their decimal text.
type PlayerID string

func (that PlayerID) IsEmpty() bool {
	return that == ""
}

func (that PlayerID) String() string {
	return string(that)
}

// UnmarshalJSON leaves the id untouched on null.
func (that *PlayerID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*that = PlayerID(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPlayerID, data)
	}

	if strings.ContainsAny(number.String(), ".eE") {
		return fmt.Errorf("%w: %s", ErrInvalidPlayerID, data)
	}

	*that = PlayerID(number.String())

	return nil
}

// MoveIntent asks the server to sow from one of the local player's pits.
type MoveIntent struct {
	Pit int `json:"pit"`
}
