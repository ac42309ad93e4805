package remote

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/solarlune/armature"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

// Broadcast sends the Snapshot given to every connected websocket client. Clients that can't keep up miss Snapshots
// rather than slowing the caller down.
func (s *Server) Broadcast(snapshot armature.Snapshot) {

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.Log.WithError(err).Error("encoding snapshot")
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.last = data

	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}

}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.clients)
}

// Close disconnects every websocket client; later connections are refused.
func (s *Server) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.closed = true
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	c := &client{server: s, conn: conn, send: make(chan []byte, 32)}

	if !s.register(c) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closed"))
		conn.Close()
		return
	}

	s.Log.WithField("remote", conn.RemoteAddr().String()).Info("websocket client connected")

	go c.writePump()
	c.readPump()

}

func (s *Server) register(c *client) bool {

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return false
	}

	s.clients[c] = true

	// New clients start from the latest state rather than waiting for the next frame.
	last := s.last
	if last == nil {
		if data, err := json.Marshal(s.Snapshot()); err == nil {
			last = data
		}
	}
	if last != nil {
		c.send <- last
	}

	return true

}

// sendTo queues a message for one client. A client that has been unregistered (its send channel is closed) or that isn't
// keeping up doesn't get it.
func (s *Server) sendTo(c *client, msg []byte) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.clients[c] {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (s *Server) unregister(c *client) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

// readPump pushes each Command read from the connection onto the Server's queue. Bad Commands are answered with an
// error message and don't drop the connection.
func (c *client) readPump() {

	defer func() {
		c.server.unregister(c)
		c.conn.Close()
		c.server.Log.WithField("remote", c.conn.RemoteAddr().String()).Info("websocket client disconnected")
	}()

	c.conn.SetReadLimit(maxCommandSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {

		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.Log.WithError(err).Warn("websocket read")
			}
			return
		}

		if err := c.server.push(msg); err != nil {
			reply, _ := json.Marshal(map[string]string{"error": err.Error()})
			c.server.sendTo(c, reply)
		}

	}

}

func (c *client) writePump() {

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
				c.server.Log.WithError(errors.Wrap(err, "websocket write")).Warn("dropping client")
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
