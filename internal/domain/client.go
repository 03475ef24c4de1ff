package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Role string

const (
	RoleDisplay    Role = "display"
	RoleController Role = "controller"
)

// Client represents one live transport connection. Its identity is assigned
// by the server and never reused across reconnects.
type Client struct {
	ID          string
	Role        Role
	ConnectedAt time.Time
	Socket      *websocket.Conn
	Events      chan Envelope

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient() *Client {
	return &Client{
		ID:          uuid.New().String(),
		ConnectedAt: time.Now().UTC(),
		Events:      make(chan Envelope, 16),
		done:        make(chan struct{}),
	}
}

// EnqueueEvent delivers an outbound event without blocking; a full channel
// drops the event since emissions are fire-and-forget.
func (c *Client) EnqueueEvent(event Envelope) {
	select {
	case c.Events <- event:
	default:
	}
}

// Close signals the write pump to exit. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Done is closed once the client has been shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}
