package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/screenlink/screenlink/internal/registry"
	"github.com/screenlink/screenlink/lib/logger/sl"
)

// Sweeper periodically evicts rooms older than maxAge. Expiry is
// unconditional on activity: a busy room still dies at max age.
type Sweeper struct {
	rooms    registry.RoomRegistry
	log      *slog.Logger
	clock    clockwork.Clock
	interval time.Duration
	maxAge   time.Duration
}

func NewSweeper(rooms registry.RoomRegistry, log *slog.Logger, clock clockwork.Clock, interval, maxAge time.Duration) *Sweeper {
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{
		rooms:    rooms,
		log:      log,
		clock:    clock,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	const op = "service.sweeper.run"
	log := s.log.With(slog.String("op", op))

	log.Info("sweeper started",
		slog.Duration("interval", s.interval),
		slog.Duration("max_age", s.maxAge),
	)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return
		case <-ticker.Chan():
			s.sweep(ctx, log)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, log *slog.Logger) {
	removed, err := s.rooms.SweepExpired(ctx, s.maxAge, s.clock.Now())
	if err != nil {
		log.Error("sweep failed", sl.Err(err))
		return
	}
	if removed > 0 {
		log.Info("expired rooms removed", slog.Int("count", removed))
	}
}
