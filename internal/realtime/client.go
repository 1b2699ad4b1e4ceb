package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Commands accepted from browser clients.
const (
	CmdToggleElectrode = "toggle_electrode"
	CmdSetElectrodes   = "set_electrodes"
	CmdClearElectrodes = "clear_electrodes"
	CmdStartSession    = "start_session"
	CmdStopSession     = "stop_session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS middleware
	},
}

// WSMessage is the WebSocket message envelope.
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type toggleData struct {
	ID string `json:"id"`
}

type setData struct {
	IDs []string `json:"ids"`
}

type errorData struct {
	Message string `json:"message"`
	Event   string `json:"event,omitempty"`
}

// Client represents a single browser WebSocket connection.
type Client struct {
	ID          string
	ConnectedAt time.Time
	hub         *Hub
	conn        *websocket.Conn
	send        chan WSMessage
	logger      *zap.Logger

	// guarded by hub.mu
	stateSent    bool
	stateVersion uint64
}

// ServeWs handles the WebSocket upgrade and runs the client loop.
func ServeWs(hub *Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			ID:          uuid.New().String(),
			ConnectedAt: time.Now(),
			hub:         hub,
			conn:        conn,
			send:        make(chan WSMessage, 256),
			logger:      logger,
		}
		hub.Register(client)
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		return nil
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(PongWait * time.Second))
		c.dispatch(msg)
	}
}

// dispatch applies one command. The resulting state reaches every client
// through the store listener, this one included.
func (c *Client) dispatch(msg WSMessage) {
	store := c.hub.store
	switch msg.Event {
	case CmdToggleElectrode:
		var d toggleData
		if err := json.Unmarshal(msg.Data, &d); err != nil || d.ID == "" {
			c.reject(msg.Event, "id required")
			return
		}
		store.ToggleElectrode(d.ID)
	case CmdSetElectrodes:
		var d setData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			c.reject(msg.Event, "ids required")
			return
		}
		store.SetElectrodes(d.IDs)
	case CmdClearElectrodes:
		store.ClearElectrodes()
	case CmdStartSession:
		go store.Start(context.Background())
	case CmdStopSession:
		store.StopDetached(context.Background())
	default:
		c.reject(msg.Event, "unknown event")
	}
}

func (c *Client) reject(event, message string) {
	c.logger.Debug("rejected client command", zap.String("client_id", c.ID), zap.String("event", event))
	c.hub.SendToClient(c.ID, EventError, errorData{Message: message, Event: event})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
