package domain

import (
	"encoding/json"
	"errors"
)

type EventType string

const (
	EventCreateRoom  EventType = "create-room"
	EventRoomCreated EventType = "room-created"
	EventJoinRoom    EventType = "join-room"
	EventRoomJoined  EventType = "room-joined"
	EventInput       EventType = "input"
	EventRoomError   EventType = "room-error"
)

// Envelope is the wire frame exchanged over a client connection. The payload
// stays raw so input events can be forwarded to the display verbatim.
type Envelope struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomPayload struct {
	Role Role `json:"role"`
}

type JoinRoomPayload struct {
	Code string `json:"code"`
	Role Role   `json:"role"`
}

type RoomCreatedPayload struct {
	Code string `json:"code"`
}

type RoomErrorPayload struct {
	Error string `json:"error"`
}

type RoomJoinedPayload struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

type InputKind string

const (
	InputNavigate InputKind = "navigate"
	InputAction   InputKind = "action"
)

type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

type Action string

const (
	ActionOK   Action = "ok"
	ActionBack Action = "back"
)

// InputPayload carries one directional or action event from a controller.
// The timestamp is the sender's clock and is forwarded untouched.
type InputPayload struct {
	Kind      InputKind `json:"kind"`
	Direction Direction `json:"direction,omitempty"`
	Action    Action    `json:"action,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

var ErrInvalidInput = errors.New("invalid input payload")

// Validate rejects payloads outside the closed navigate/action variants.
func (p *InputPayload) Validate() error {
	switch p.Kind {
	case InputNavigate:
		switch p.Direction {
		case DirectionUp, DirectionDown, DirectionLeft, DirectionRight:
			return nil
		}
		return ErrInvalidInput
	case InputAction:
		switch p.Action {
		case ActionOK, ActionBack:
			return nil
		}
		return ErrInvalidInput
	default:
		return ErrInvalidInput
	}
}

// NewEnvelope wraps a payload struct into a wire frame. Payload types in this
// package always marshal, so the error is swallowed.
func NewEnvelope(t EventType, payload any) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{Type: t, Payload: raw}
}
