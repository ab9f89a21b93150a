package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

const (
	// writeWait is the allowance for one write to the peer
	writeWait = 10 * time.Second
	// pongWait is how long we wait for a pong before dropping the peer
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; the protocol's largest message
	// is a chat line, well under this
	maxMessageSize = 4096
	// sendBufferSize is the per-client outbound queue depth
	sendBufferSize = 64
)

// Client is one WebSocket connection. Reads and writes each run on their
// own goroutine; all outbound traffic goes through the send channel.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	id   model.ConnectionID
	send chan []byte
}

// ID returns the connection identifier
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// readPump pulls frames off the connection and hands them to the hub's
// handler. It owns the read side; when it returns the client is dead.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("unexpected close",
					slog.String("conn_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}
		c.hub.dispatch(c.id, message)
	}
}

// writePump drains the send channel to the connection and keeps the peer
// alive with pings. It owns the write side.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
