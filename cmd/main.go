package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	httpapi "github.com/screenlink/screenlink/internal/api/http"
	"github.com/screenlink/screenlink/internal/config"
	"github.com/screenlink/screenlink/internal/registry"
	"github.com/screenlink/screenlink/internal/service"
	"github.com/screenlink/screenlink/lib/logger/slogpretty"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env)

	rooms := registry.NewInMemoryRegistry(registry.Options{
		CodeLength:        cfg.Room.CodeLength,
		AllowLeadingZeros: cfg.Room.AllowLeadingZeros,
		MaxControllers:    cfg.Room.MaxControllers,
	})

	roomService := service.NewRoomService(rooms, log)

	sweeper := service.NewSweeper(rooms, log, clockwork.NewRealClock(), cfg.Room.SweepInterval, cfg.Room.MaxAge)
	go sweeper.Run(context.Background())

	sessionController := httpapi.NewSessionController(roomService, log)
	statusController := httpapi.NewStatusController(roomService)

	router := httpapi.SetupRouter(sessionController, statusController, cfg.HTTP.AllowedOrigins)

	log.Info("starting application", slog.String("addr", cfg.HTTP.Address))
	if err := router.Run(cfg.HTTP.Address); err != nil {
		log.Error("http server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = setupPrettySlog()
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
