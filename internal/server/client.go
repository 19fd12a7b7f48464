package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/AnahoretN/NexusGameTable-sub000/internal/table"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead; pings go out slightly before the deadline.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames. Actions are small; a frame
	// larger than this is a misbehaving client.
	maxMessageSize = 1 << 20

	// sendBuffer is the per-client outbound queue. A client that falls
	// this far behind is dropped rather than blocking the room.
	sendBuffer = 256
)

// Client is one WebSocket connection bound to a room. The read pump is
// the only reader of conn, the write pump the only writer; everyone
// else reaches the client through trySend, which shares mu with
// closeSend so a frame is never sent on a closed channel.
type Client struct {
	room   *Room
	conn   *websocket.Conn
	actor  table.Actor
	name   string
	logger *zap.Logger

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(room *Room, conn *websocket.Conn, actor table.Actor, name string, logger *zap.Logger) *Client {
	return &Client{
		room:   room,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		actor:  actor,
		name:   name,
		logger: logger,
	}
}

// readPump consumes inbound frames until the connection dies, handing
// ACTION envelopes to the room. It owns the unregister on exit.
func (c *Client) readPump() {
	defer func() {
		c.room.Leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed",
					zap.String("room_id", c.room.ID),
					zap.String("player_id", c.actor.PlayerID),
					zap.Error(err),
				)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("malformed envelope")
			continue
		}

		switch env.Type {
		case MsgAction:
			action, err := decodeAction(env)
			if err != nil {
				c.sendError(err.Error())
				continue
			}
			c.room.HandleAction(c, action, raw)
		default:
			c.sendError("unknown message type " + env.Type)
		}
	}
}

// writePump drains the send channel onto the connection and keeps the
// ping cadence. A closed send channel means the room dropped us.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend queues a frame without blocking; false means the client's
// buffer is full or the room already dropped it.
func (c *Client) trySend(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// closeSend shuts the outbound queue. Idempotent and safe against a
// concurrent trySend; the write pump exits on the closed channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// sendError answers the sender with an ERROR envelope; failures to
// queue are ignored since the client is on its way out anyway.
func (c *Client) sendError(msg string) {
	data, err := encodeEnvelope(MsgError, c.room.ID, errorPayload{Error: msg})
	if err != nil {
		return
	}
	c.trySend(data)
}
