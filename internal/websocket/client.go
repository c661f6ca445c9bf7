package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/derdine/forum-service/internal/types"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ErrSendBufferFull is returned when a slow client cannot keep up.
var ErrSendBufferFull = errors.New("websocket send buffer full")

// Upgrader accepts connections from any origin; the forum API is already
// served with permissive CORS.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a WebSocket client connection
type Client struct {
	conn *websocket.Conn

	// Buffered channel of outbound messages. Only the hub closes it.
	send chan []byte

	userID string
	hub    *Hub
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, userID string, hub *Hub) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		hub:    hub,
	}
}

// readPump drains the connection so control frames are processed. The
// stream is one-way; client messages are ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", slog.String("user_id", c.userID), slog.String("error", err.Error()))
			}
			return
		}
	}
}

// writePump sends queued events, one JSON document per text frame, and
// keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.closeWithReason(websocket.CloseGoingAway, "event stream closed")
				return
			}
			if err := c.write(websocket.TextMessage, message); err != nil {
				slog.Warn("WebSocket write failed", slog.String("user_id", c.userID), slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// closeWithReason tells the peer why the stream ended. Errors are ignored;
// the connection is closed right after.
func (c *Client) closeWithReason(code int, reason string) {
	c.write(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}

// SendEvent queues an event for this client without blocking.
func (c *Client) SendEvent(event *types.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Start registers the client with its hub and starts the read and write
// pumps. The connection is closed if the hub has already stopped.
func (c *Client) Start() {
	if !c.hub.RegisterClient(c) {
		c.conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

// UserID returns the user ID associated with this client
func (c *Client) UserID() string {
	return c.userID
}
