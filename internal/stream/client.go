package stream

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ClientMessage is sent by viewers. X is in world units.
type ClientMessage struct {
	Type   string  `json:"type"`
	X      float64 `json:"x,omitempty"`
	Force  float64 `json:"force,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

type ServerMessage struct {
	Type    string  `json:"type"`
	ID      string  `json:"id,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Samples int     `json:"samples,omitempty"`
	Frame   *Frame  `json:"frame,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Frame is one sampled snapshot of the surface, base wave included.
type Frame struct {
	Seq     uint64    `json:"seq"`
	Time    float64   `json:"time"`
	OriginX float64   `json:"origin_x"`
	Width   float64   `json:"width"`
	Phase   float64   `json:"phase"`
	Energy  float64   `json:"energy"`
	Heights []float64 `json:"heights"`
}

type Client struct {
	id     string
	conn   *websocket.Conn
	server *Server
	out    chan []byte
	once   sync.Once
}

func newClient(id string, conn *websocket.Conn, s *Server) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		server: s,
		out:    make(chan []byte, sendBuffer),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.server.unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Warn("websocket read", "id", c.id, "err", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(ServerMessage{Type: "error", Error: "malformed message"})
			continue
		}
		c.server.handle(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data, ok := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

func (c *Client) close() {
	c.once.Do(func() { _ = c.conn.Close() })
}

func (c *Client) send(msg ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}

// enqueue drops the client when its buffer is full rather than stalling the
// broadcast loop.
func (c *Client) enqueue(data []byte) {
	c.server.mu.Lock()
	_, live := c.server.clients[c.id]
	full := false
	if live {
		select {
		case c.out <- data:
		default:
			full = true
		}
	}
	c.server.mu.Unlock()
	if full {
		c.server.logger.Warn("client too slow, dropping", "id", c.id)
		c.server.unregister(c)
	}
}
