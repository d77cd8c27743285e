package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"marketchat/internal/infrastructure/metrics"
	"marketchat/internal/infrastructure/realtime"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin policy is enforced by the fronting proxy
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RoomSocketController upgrades HTTP requests to websockets and relays every
// inbound JSON frame verbatim to the members of the requested room, the
// sender included. Room ids are opaque; clients agree out of band on which
// room backs which conversation.
type RoomSocketController struct {
	Registry *realtime.Registry
	Log      zerolog.Logger
}

func NewRoomSocketController(registry *realtime.Registry, log zerolog.Logger) *RoomSocketController {
	return &RoomSocketController{Registry: registry, Log: log}
}

func (h *RoomSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			respondFailed(c, http.StatusBadRequest, "Room ID is required")
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.Log.Warn().Err(err).Str("room_id", roomID).Msg("websocket upgrade failed")
			return
		}

		conn := realtime.NewConnection(ws)
		conn.Start()
		h.Registry.Join(roomID, conn)
		metrics.OpenSockets.Inc()

		h.Log.Debug().Str("room_id", roomID).Str("connection_id", conn.ID).Msg("socket joined room")

		go h.readLoop(roomID, conn, ws)
	}
}

func (h *RoomSocketController) readLoop(roomID string, conn *realtime.Connection, ws *websocket.Conn) {
	defer func() {
		h.Registry.Detach(conn)
		conn.Close(websocket.CloseNormalClosure, "")
		metrics.OpenSockets.Dec()
		h.Log.Debug().Str("room_id", roomID).Str("connection_id", conn.ID).Msg("socket left room")
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.Log.Debug().Err(err).Str("connection_id", conn.ID).Msg("socket read error")
			}
			return
		}
		// the relay is payload-agnostic apart from requiring well-formed JSON
		if !json.Valid(data) {
			conn.Close(websocket.CloseUnsupportedData, "payload must be valid JSON")
			return
		}
		h.Registry.Broadcast(roomID, data)
	}
}
