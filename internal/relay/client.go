package relay

import (
	"log/slog"
	"time"

	"github.com/Naveenpl1081/algonest-call/internal/signaling"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. SDP bodies fit comfortably.
	maxMessageSize = 64 * 1024
)

// Client wraps a single websocket connection (one call participant).
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// RoomID is set once the client has joined a room.
	RoomID string

	// DisplayName is forwarded to the other participant on join.
	DisplayName string

	// Send is the buffered channel of outbound envelopes. A separate
	// goroutine (WritePump) drains it onto the websocket.
	Send chan *signaling.Envelope
}

// inbound pairs an envelope with the client it arrived from, for the hub.
type inbound struct {
	env    *signaling.Envelope
	client *Client
}

// ReadPump pumps envelopes from the websocket connection to the hub.
// At most one reader per connection runs, in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("relay read error", "err", err)
			}
			break
		}

		var env signaling.Envelope
		if err := msgpack.Unmarshal(data, &env); err != nil {
			slog.Debug("relay dropped undecodable frame", "err", err)
			continue
		}

		c.Hub.Inbound <- &inbound{env: &env, client: c}
	}
}

// WritePump pumps envelopes from the hub to the websocket connection.
// At most one writer per connection runs, in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := msgpack.Marshal(env)
			if err != nil {
				slog.Error("relay failed to encode envelope", "err", err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
