package registry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/screenlink/screenlink/internal/domain"
)

const createRetryLimit = 1000

// Options configure code generation and room capacity.
type Options struct {
	CodeLength        int
	AllowLeadingZeros bool
	MaxControllers    int
}

func DefaultOptions() Options {
	return Options{
		CodeLength:        6,
		AllowLeadingZeros: false,
		MaxControllers:    4,
	}
}

// InMemoryRegistry keeps rooms and the reverse index in process memory.
// A single lock guards both maps: they are updated atomically as a pair.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	index map[string]string
	opts  Options
}

func NewInMemoryRegistry(opts Options) *InMemoryRegistry {
	if opts.CodeLength <= 0 {
		opts.CodeLength = 6
	}
	if opts.MaxControllers <= 0 {
		opts.MaxControllers = 4
	}
	return &InMemoryRegistry{
		rooms: make(map[string]*domain.Room),
		index: make(map[string]string),
		opts:  opts,
	}
}

// generateCode produces a fixed-length numeric code. With leading zeros
// disabled the first digit is never zero, matching codes users see rendered
// without padding.
func (r *InMemoryRegistry) generateCode() string {
	upper := 1
	for i := 0; i < r.opts.CodeLength; i++ {
		upper *= 10
	}
	if r.opts.AllowLeadingZeros {
		return fmt.Sprintf("%0*d", r.opts.CodeLength, rand.IntN(upper))
	}
	lower := upper / 10
	return fmt.Sprintf("%d", lower+rand.IntN(upper-lower))
}

func (r *InMemoryRegistry) CreateRoom(ctx context.Context, displayID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[displayID]; ok {
		return "", ErrAlreadyMember
	}

	for attempt := 0; attempt < createRetryLimit; attempt++ {
		code := r.generateCode()
		if _, taken := r.rooms[code]; taken {
			continue
		}

		r.rooms[code] = domain.NewRoom(code, displayID)
		r.index[displayID] = code
		return code, nil
	}

	return "", ErrCodeSpaceExhausted
}

func (r *InMemoryRegistry) JoinRoom(ctx context.Context, code string, connID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[connID]; ok {
		return ErrAlreadyMember
	}

	room, ok := r.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	if len(room.ControllerIDs) >= r.opts.MaxControllers {
		return ErrRoomFull
	}

	room.ControllerIDs = append(room.ControllerIDs, connID)
	r.index[connID] = code
	return nil
}

func (r *InMemoryRegistry) RoomByCode(ctx context.Context, code string) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (r *InMemoryRegistry) RoomByConnection(ctx context.Context, connID string) (*domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.index[connID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	room, ok := r.rooms[code]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

// ResolveController does the reverse lookup, the membership check, and the
// display resolution in one critical section, so the relay never inspects
// room state that a concurrent join or disconnect is rewriting.
func (r *InMemoryRegistry) ResolveController(ctx context.Context, connID string) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.index[connID]
	if !ok {
		return "", "", ErrRoomNotFound
	}
	room, ok := r.rooms[code]
	if !ok {
		return "", "", ErrRoomNotFound
	}
	if room.DisplayID == connID || !room.HasController(connID) {
		return "", code, ErrNotController
	}
	return room.DisplayID, code, nil
}

// RemoveConnection detaches the connection from its room. A display takes the
// whole room down with it; a controller leaves the room intact. Removing a
// connection that belongs to no room is a no-op.
func (r *InMemoryRegistry) RemoveConnection(ctx context.Context, connID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.index[connID]
	if !ok {
		return nil
	}

	room, ok := r.rooms[code]
	if !ok {
		delete(r.index, connID)
		return nil
	}

	if room.DisplayID == connID {
		r.deleteRoomLocked(room)
		return nil
	}

	for i, id := range room.ControllerIDs {
		if id == connID {
			room.ControllerIDs = append(room.ControllerIDs[:i], room.ControllerIDs[i+1:]...)
			break
		}
	}
	delete(r.index, connID)
	return nil
}

func (r *InMemoryRegistry) List(ctx context.Context) ([]domain.RoomSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.RoomSummary, 0, len(r.rooms))
	for _, room := range r.rooms {
		result = append(result, room.Summary())
	}
	return result, nil
}

// SweepExpired deletes every room older than maxAge relative to now,
// regardless of activity, and reports how many were removed.
func (r *InMemoryRegistry) SweepExpired(ctx context.Context, maxAge time.Duration, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	expired := make([]*domain.Room, 0)
	for _, room := range r.rooms {
		if now.Sub(room.CreatedAt) > maxAge {
			expired = append(expired, room)
		}
	}

	for _, room := range expired {
		r.deleteRoomLocked(room)
	}
	return len(expired), nil
}

// cloneRoom copies a room, controller list included, so callers can read it
// after the registry lock is gone.
func cloneRoom(room *domain.Room) *domain.Room {
	clone := *room
	clone.ControllerIDs = append([]string(nil), room.ControllerIDs...)
	return &clone
}

// deleteRoomLocked removes the room and the reverse-index entries of every
// member. Callers must hold the write lock.
func (r *InMemoryRegistry) deleteRoomLocked(room *domain.Room) {
	if room.DisplayID != "" {
		delete(r.index, room.DisplayID)
	}
	for _, id := range room.ControllerIDs {
		delete(r.index, id)
	}
	delete(r.rooms, room.Code)
}
