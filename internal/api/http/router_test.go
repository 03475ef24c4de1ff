package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/screenlink/screenlink/internal/domain"
	"github.com/screenlink/screenlink/internal/registry"
	"github.com/screenlink/screenlink/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.RoomService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rooms := registry.NewInMemoryRegistry(registry.DefaultOptions())
	svc := service.NewRoomService(rooms, nil)

	router := SetupRouter(
		NewSessionController(svc, nil),
		NewStatusController(svc),
		[]string{"http://localhost:5173"},
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, svc
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func writeEvent(t *testing.T, conn *websocket.Conn, eventType domain.EventType, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(domain.Envelope{Type: eventType, Payload: raw}))
}

func readEvent(t *testing.T, conn *websocket.Conn) domain.Envelope {
	t.Helper()
	var env domain.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status    string `json:"status"`
		Timestamp int64  `json:"timestamp"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotZero(t, body.Timestamp)
}

func TestRoomsEndpoint(t *testing.T) {
	srv, svc := newTestServer(t)

	client := domain.NewClient()
	svc.Connect(context.Background(), client)
	raw, _ := json.Marshal(domain.CreateRoomPayload{Role: domain.RoleDisplay})
	svc.HandleEvent(context.Background(), client, domain.Envelope{Type: domain.EventCreateRoom, Payload: raw})

	resp, err := http.Get(srv.URL + "/api/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Rooms []domain.RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rooms, 1)
	assert.True(t, body.Rooms[0].DisplayConnected)
	assert.False(t, body.Rooms[0].ControllerConnected)
}

func TestPairingOverWebSocket(t *testing.T) {
	srv, _ := newTestServer(t)

	display := dialWS(t, srv)
	controller := dialWS(t, srv)

	writeEvent(t, display, domain.EventCreateRoom, domain.CreateRoomPayload{Role: domain.RoleDisplay})

	env := readEvent(t, display)
	require.Equal(t, domain.EventRoomCreated, env.Type)

	var created domain.RoomCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &created))
	require.Len(t, created.Code, 6)

	writeEvent(t, controller, domain.EventJoinRoom, domain.JoinRoomPayload{
		Code: created.Code,
		Role: domain.RoleController,
	})

	env = readEvent(t, controller)
	require.Equal(t, domain.EventRoomJoined, env.Type)
	var joined domain.RoomJoinedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &joined))
	require.True(t, joined.Success)
	assert.Equal(t, created.Code, joined.Code)

	// The display hears about the join too.
	env = readEvent(t, display)
	require.Equal(t, domain.EventRoomJoined, env.Type)

	// Input flows controller to display with the payload untouched.
	input := domain.InputPayload{
		Kind:      domain.InputNavigate,
		Direction: domain.DirectionUp,
		Timestamp: time.Now().UnixMilli(),
	}
	writeEvent(t, controller, domain.EventInput, input)

	env = readEvent(t, display)
	require.Equal(t, domain.EventInput, env.Type)

	var got domain.InputPayload
	require.NoError(t, json.Unmarshal(env.Payload, &got))
	assert.Equal(t, input, got)
}

func TestDisplayDisconnectTearsDownRoom(t *testing.T) {
	srv, svc := newTestServer(t)

	display := dialWS(t, srv)
	controller := dialWS(t, srv)

	writeEvent(t, display, domain.EventCreateRoom, domain.CreateRoomPayload{Role: domain.RoleDisplay})
	env := readEvent(t, display)
	var created domain.RoomCreatedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &created))

	writeEvent(t, controller, domain.EventJoinRoom, domain.JoinRoomPayload{
		Code: created.Code,
		Role: domain.RoleController,
	})
	readEvent(t, controller)

	display.Close()

	require.Eventually(t, func() bool {
		rooms, err := svc.ListRooms(context.Background())
		return err == nil && len(rooms) == 0
	}, 2*time.Second, 20*time.Millisecond)
}
