package apperror

import "errors"

var (
	ErrProtocolOrdering    = errors.New("message arrived out of order")
	ErrUnrecognizedMessage = errors.New("unrecognized message")
	ErrIdentityReassigned  = errors.New("player identity already assigned")
	ErrEmptyPlayerID       = errors.New("player id is empty")
	ErrUnknownPlayer       = errors.New("player is not part of this session")
	ErrInvalidBoard        = errors.New("invalid board snapshot")
	ErrSessionClosed       = errors.New("session is closed")
)
