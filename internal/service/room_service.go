package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/screenlink/screenlink/internal/domain"
	"github.com/screenlink/screenlink/internal/registry"
	"github.com/screenlink/screenlink/lib/logger/sl"
)

// Join failures deliberately collapse "not found" and "full" into one
// message so a guesser learns nothing about which codes are live.
const joinFailureMessage = "room not found or already full"

// RoomService drives the pairing protocol. Each connection moves through
// exactly one lifecycle: unassociated, then room owner or room member, then
// removed; a connection never changes role and rejoining takes a fresh
// transport session.
type RoomService struct {
	rooms   registry.RoomRegistry
	log     *slog.Logger
	mu      sync.RWMutex
	clients map[string]*domain.Client
}

func NewRoomService(rooms registry.RoomRegistry, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	return &RoomService{
		rooms:   rooms,
		log:     log,
		clients: make(map[string]*domain.Client),
	}
}

// Connect registers a freshly-accepted transport connection.
func (s *RoomService) Connect(ctx context.Context, client *domain.Client) {
	s.mu.Lock()
	s.clients[client.ID] = client
	s.mu.Unlock()

	s.log.Info("client connected", slog.String("conn_id", client.ID))
}

// HandleEvent dispatches one inbound protocol frame. Failures are answered
// on the sender's own channel, never as transport errors.
func (s *RoomService) HandleEvent(ctx context.Context, client *domain.Client, env domain.Envelope) {
	switch env.Type {
	case domain.EventCreateRoom:
		s.createRoom(ctx, client, env.Payload)
	case domain.EventJoinRoom:
		s.joinRoom(ctx, client, env.Payload)
	case domain.EventInput:
		s.relayInput(ctx, client, env.Payload)
	default:
		s.log.Warn("unknown event type",
			slog.String("conn_id", client.ID),
			slog.String("type", string(env.Type)),
		)
	}
}

// Disconnect removes the connection from its room, cascading room deletion
// when the display goes away. Idempotent; no reply is possible.
func (s *RoomService) Disconnect(ctx context.Context, client *domain.Client) {
	const op = "service.room.disconnect"
	log := s.log.With(slog.String("op", op), slog.String("conn_id", client.ID))

	if err := s.rooms.RemoveConnection(ctx, client.ID); err != nil {
		log.Error("failed to remove connection", sl.Err(err))
	}

	s.mu.Lock()
	delete(s.clients, client.ID)
	s.mu.Unlock()

	client.Close()
	log.Info("client disconnected")
}

func (s *RoomService) ListRooms(ctx context.Context) ([]domain.RoomSummary, error) {
	return s.rooms.List(ctx)
}

func (s *RoomService) createRoom(ctx context.Context, client *domain.Client, raw json.RawMessage) {
	const op = "service.room.create"
	log := s.log.With(slog.String("op", op), slog.String("conn_id", client.ID))

	var payload domain.CreateRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Role != domain.RoleDisplay {
		log.Warn("rejected create request", slog.String("reason", "only displays may create rooms"))
		s.emitError(client, "only displays may create rooms")
		return
	}

	code, err := s.rooms.CreateRoom(ctx, client.ID)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrAlreadyMember):
			log.Warn("rejected create request", slog.String("reason", "already in a room"))
			s.emitError(client, "already in a room")
		case errors.Is(err, registry.ErrCodeSpaceExhausted):
			log.Error("code allocation failed", sl.Err(err))
			s.emitError(client, "could not allocate a room code")
		default:
			log.Error("create failed", sl.Err(err))
			s.emitError(client, "could not create room")
		}
		return
	}

	client.Role = domain.RoleDisplay
	client.EnqueueEvent(domain.NewEnvelope(domain.EventRoomCreated, domain.RoomCreatedPayload{Code: code}))

	log.Info("room created", slog.String("code", code))
}

func (s *RoomService) joinRoom(ctx context.Context, client *domain.Client, raw json.RawMessage) {
	const op = "service.room.join"
	log := s.log.With(slog.String("op", op), slog.String("conn_id", client.ID))

	var payload domain.JoinRoomPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("malformed join payload", sl.Err(err))
		s.emitJoinFailure(client, "invalid join request")
		return
	}

	log = log.With(slog.String("code", payload.Code))

	// Displays only create; joining an existing room is a controller move.
	if payload.Role != domain.RoleController {
		log.Warn("rejected join request", slog.String("reason", "only controllers may join rooms"))
		s.emitJoinFailure(client, "only controllers may join rooms")
		return
	}

	if err := s.rooms.JoinRoom(ctx, payload.Code, client.ID); err != nil {
		switch {
		case errors.Is(err, registry.ErrAlreadyMember):
			log.Warn("rejected join request", slog.String("reason", "already in a room"))
			s.emitJoinFailure(client, "already in a room")
		case errors.Is(err, registry.ErrRoomNotFound), errors.Is(err, registry.ErrRoomFull):
			log.Info("join failed", sl.Err(err))
			s.emitJoinFailure(client, joinFailureMessage)
		default:
			log.Error("join failed", sl.Err(err))
			s.emitJoinFailure(client, joinFailureMessage)
		}
		return
	}

	client.Role = domain.RoleController

	ack := domain.NewEnvelope(domain.EventRoomJoined, domain.RoomJoinedPayload{
		Success: true,
		Code:    payload.Code,
	})
	client.EnqueueEvent(ack)

	// Tell the display a controller arrived so it can react.
	if room, err := s.rooms.RoomByCode(ctx, payload.Code); err == nil {
		if display := s.client(room.DisplayID); display != nil {
			display.EnqueueEvent(ack)
		}
	}

	log.Info("controller joined room")
}

func (s *RoomService) emitError(client *domain.Client, msg string) {
	client.EnqueueEvent(domain.NewEnvelope(domain.EventRoomError, domain.RoomErrorPayload{Error: msg}))
}

func (s *RoomService) emitJoinFailure(client *domain.Client, msg string) {
	client.EnqueueEvent(domain.NewEnvelope(domain.EventRoomJoined, domain.RoomJoinedPayload{
		Success: false,
		Error:   msg,
	}))
}

func (s *RoomService) client(connID string) *domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients[connID]
}
