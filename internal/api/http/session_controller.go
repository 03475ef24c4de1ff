package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/screenlink/screenlink/internal/domain"
	"github.com/screenlink/screenlink/internal/service"
)

type SessionController struct {
	sessions service.SessionInteractor
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewSessionController(sessions service.SessionInteractor, log *slog.Logger) *SessionController {
	if log == nil {
		log = slog.Default()
	}
	return &SessionController{
		sessions: sessions,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Serve upgrades the request and runs the connection's read loop until the
// transport goes away. Protocol replies travel through the client's event
// channel and a dedicated write pump.
func (c *SessionController) Serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		ctx.String(http.StatusInternalServerError, "failed to upgrade connection")
		return
	}

	client := domain.NewClient()
	client.Socket = conn

	c.sessions.Connect(context.Background(), client)

	go forwardClientEvents(client)

	for {
		var env domain.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.sessions.Disconnect(context.Background(), client)
			conn.Close()
			return
		}

		c.sessions.HandleEvent(context.Background(), client, env)
	}
}

func forwardClientEvents(client *domain.Client) {
	for {
		select {
		case <-client.Done():
			return
		case event := <-client.Events:
			if err := client.Socket.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
