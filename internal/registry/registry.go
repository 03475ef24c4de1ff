package registry

import (
	"context"
	"errors"
	"time"

	"github.com/screenlink/screenlink/internal/domain"
)

var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrAlreadyMember      = errors.New("connection already belongs to a room")
	ErrNotController      = errors.New("connection is not a controller in its room")
	ErrCodeSpaceExhausted = errors.New("room code space exhausted")
)

// RoomRegistry is the sole owner of all rooms and the connection-to-room
// reverse index. Every mutation goes through it so the two structures stay
// consistent. Lookups hand out snapshot copies, never the live room: reads
// that outlive the registry lock must not observe concurrent membership
// mutations.
type RoomRegistry interface {
	CreateRoom(ctx context.Context, displayID string) (string, error)
	JoinRoom(ctx context.Context, code string, connID string) error
	RoomByCode(ctx context.Context, code string) (*domain.Room, error)
	RoomByConnection(ctx context.Context, connID string) (*domain.Room, error)
	// ResolveController checks, under the registry lock, that connID is a
	// controller member of a live room and returns that room's display
	// connection and code.
	ResolveController(ctx context.Context, connID string) (displayID string, code string, err error)
	RemoveConnection(ctx context.Context, connID string) error
	List(ctx context.Context) ([]domain.RoomSummary, error)
	SweepExpired(ctx context.Context, maxAge time.Duration, now time.Time) (int, error)
}
