package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/kalah-client/internal/apperror"
	"github.com/rocketscienceinc/kalah-client/internal/entity"
)

var (
	ErrMissingType = errors.New("missing type discriminant")
	ErrUnknownType = errors.New("unknown type")
	ErrNotAnObject = errors.New("message is not a JSON object")
)

type envelope struct {
	Type *string `json:"type"`
}

// Decode turns a raw server message into an Event.
// Anything that is not one of the known tagged records wraps apperror.ErrUnrecognizedMessage.
func Decode(data []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, unrecognized(fmt.Errorf("%w: %w", ErrNotAnObject, err))
	}

	if fields == nil {
		return nil, unrecognized(ErrNotAnObject)
	}

	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, unrecognized(err)
	}

	if head.Type == nil {
		return nil, unrecognized(ErrMissingType)
	}

	var event Event
	switch *head.Type {
	case TypeWaitingForOpponent:
		event = &WaitingForOpponent{}
	case TypeReadyToStart:
		event = &ReadyToStart{}
	case TypeBoardState:
		event = &BoardState{}
	case TypeIllegalMove:
		event = &IllegalMove{}
	case TypeGameOver:
		event = &GameOver{}
	default:
		return nil, unrecognized(fmt.Errorf("%w: %q", ErrUnknownType, *head.Type))
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, unrecognized(fmt.Errorf("%s payload: %w", *head.Type, err))
	}

	return deref(event), nil
}

// Encode writes an event the way the server puts it on the wire.
func Encode(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", event.Type(), err)
	}

	var fields map[string]json.RawMessage
	if err = json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to reshape %s: %w", event.Type(), err)
	}

	fields["type"], err = json.Marshal(event.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal type: %w", err)
	}

	return json.Marshal(fields)
}

// EncodeMove serialises a move intent as the bare pit index.
func EncodeMove(intent entity.MoveIntent) ([]byte, error) {
	data, err := json.Marshal(intent.Pit)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal move: %w", err)
	}

	return data, nil
}

func unrecognized(cause error) error {
	return fmt.Errorf("%w: %w", apperror.ErrUnrecognizedMessage, cause)
}

func deref(event Event) Event {
	switch e := event.(type) {
	case *WaitingForOpponent:
		return *e
	case *ReadyToStart:
		return *e
	case *BoardState:
		return *e
	case *IllegalMove:
		return *e
	case *GameOver:
		return *e
	default:
		return event
	}
}
