package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/screenlink/screenlink/internal/domain"
	"github.com/screenlink/screenlink/internal/registry"
	"github.com/screenlink/screenlink/lib/logger/sl"
)

// relayInput forwards one input event from a controller to its paired
// display. Events that cannot be attributed to a controller in a live room
// are dropped, never errored: input racing a disconnect is routine.
func (s *RoomService) relayInput(ctx context.Context, client *domain.Client, raw json.RawMessage) {
	const op = "service.room.relay"
	log := s.log.With(slog.String("op", op), slog.String("conn_id", client.ID))

	var payload domain.InputPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("malformed input payload", sl.Err(err))
		return
	}
	if err := payload.Validate(); err != nil {
		log.Warn("dropping input", slog.String("reason", "unknown kind or value"))
		return
	}

	// The membership check happens inside the registry lock: a display must
	// never inject input into itself, and stale events from a removed member
	// are dropped.
	displayID, code, err := s.rooms.ResolveController(ctx, client.ID)
	switch {
	case errors.Is(err, registry.ErrNotController):
		log.Warn("dropping input",
			slog.String("reason", "sender is not a controller in this room"),
			slog.String("code", code),
		)
		return
	case err != nil:
		log.Debug("dropping input", slog.String("reason", "sender not in any room"))
		return
	}

	display := s.client(displayID)
	if display == nil {
		log.Warn("dropping input",
			slog.String("reason", "room has no display connection"),
			slog.String("code", code),
		)
		return
	}

	// Forward the sender's payload bytes untouched, original timestamp and all.
	display.EnqueueEvent(domain.Envelope{Type: domain.EventInput, Payload: raw})

	log.Debug("input forwarded",
		slog.String("code", code),
		slog.String("kind", string(payload.Kind)),
	)
}
