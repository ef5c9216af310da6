package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"bot-console/internal/event"
	"bot-console/internal/refresh"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Incoming frames are small control messages from the console page.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin policy is enforced by the CORS middleware; the
		// upgrade itself only serves the console's own pages.
		return true
	},
}

// Client is one connected console page. It owns the page's auto-refresh
// timer: the timer starts with the connection and stops when the connection
// goes away, so a closed tab never keeps fetching in the background.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	refresh *refresh.Timer
}

// Serve upgrades the request and runs the connection's pumps. onTick fires
// on each auto-refresh interval for as long as the connection lives; when it
// reports the session is no longer valid, the client is told to re-login and
// the connection closed.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, interval time.Duration, onTick func() error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 32),
	}
	if onTick != nil {
		client.refresh = refresh.NewTimer(interval, func() {
			if err := onTick(); err != nil {
				client.expire()
			}
		})
		client.refresh.Start()
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) teardown() {
	if c.refresh != nil {
		c.refresh.Stop()
	}
}

// expire tells this one page its session died and then drops the connection.
// Only this client is told; other operators' sessions are unaffected. Closing
// the connection lets the read pump run the normal unregister path, which
// stops the refresh timer behind the failing session.
func (c *Client) expire() {
	message, err := json.Marshal(event.New(event.TypeSessionExpired, nil))
	if err == nil {
		select {
		case c.send <- message:
		default:
		}
	}
	time.AfterFunc(writeWait, func() { c.conn.Close() })
}

// readPump drains the connection until it closes. The console page does not
// send application messages; reading only services pings and detects the
// disconnect that tears the client down.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
