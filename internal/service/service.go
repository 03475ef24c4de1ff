package service

import (
	"context"

	"github.com/screenlink/screenlink/internal/domain"
)

// SessionInteractor is the protocol surface consumed by the transport layer.
type SessionInteractor interface {
	Connect(ctx context.Context, client *domain.Client)
	HandleEvent(ctx context.Context, client *domain.Client, env domain.Envelope)
	Disconnect(ctx context.Context, client *domain.Client)
	ListRooms(ctx context.Context) ([]domain.RoomSummary, error)
}
