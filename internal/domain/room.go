package domain

import (
	"time"
)

// Room is the pairing unit binding one display connection to zero or more
// controller connections under a shared short code. Rooms are plain data:
// every mutation happens inside the registry under its lock so the room map
// and the connection index never diverge.
type Room struct {
	Code          string
	DisplayID     string
	ControllerIDs []string
	CreatedAt     time.Time
}

// NewRoom constructs a room owned by the given display connection.
func NewRoom(code string, displayID string) *Room {
	return &Room{
		Code:      code,
		DisplayID: displayID,
		CreatedAt: time.Now().UTC(),
	}
}

// HasController reports whether the connection is one of the room's controllers.
func (r *Room) HasController(connID string) bool {
	for _, id := range r.ControllerIDs {
		if id == connID {
			return true
		}
	}
	return false
}

// Summary returns the read-only diagnostic view of the room.
func (r *Room) Summary() RoomSummary {
	return RoomSummary{
		Code:                r.Code,
		DisplayConnected:    r.DisplayID != "",
		ControllerConnected: len(r.ControllerIDs) > 0,
		ControllerCount:     len(r.ControllerIDs),
		CreatedAt:           r.CreatedAt,
	}
}

// RoomSummary is the snapshot item returned by the diagnostics listing.
type RoomSummary struct {
	Code                string    `json:"roomCode"`
	DisplayConnected    bool      `json:"displayConnected"`
	ControllerConnected bool      `json:"controllerConnected"`
	ControllerCount     int       `json:"controllerCount"`
	CreatedAt           time.Time `json:"createdAt"`
}
