// Package socket hosts the Socket.IO hub used for realtime match
// notifications. Clients join a room named after their username; when a
// reciprocal match is created, both rooms receive a "match" event with
// the other participant's name.
package socket

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"
)

// Hub wraps the Socket.IO server. It implements services.MatchNotifier.
type Hub struct {
	server *socketio.Server
	log    *logrus.Logger
}

// NewHub initializes the Socket.IO server and its event handlers.
func NewHub(log *logrus.Logger) *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.WithField("socket_id", c.ID()).Info("socket connected")
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, username string) {
		if username == "" {
			log.WithField("socket_id", c.ID()).Warn("join without username")
			return
		}
		c.Join(username)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.WithFields(logrus.Fields{
			"socket_id": c.ID(),
			"reason":    reason,
		}).Info("socket disconnected")
	})

	return &Hub{server: server, log: log}
}

// NotifyMatch emits a match event to both participants' rooms. Delivery
// is best-effort; absent rooms are simply empty broadcasts.
func (h *Hub) NotifyMatch(a, b string) {
	h.server.BroadcastToRoom("/", a, "match", map[string]string{"name": b})
	h.server.BroadcastToRoom("/", b, "match", map[string]string{"name": a})
}

// Serve runs the Socket.IO event loop.
func (h *Hub) Serve() error { return h.server.Serve() }

// Close shuts the server down.
func (h *Hub) Close() error { return h.server.Close() }

// Handler exposes the server for mounting under /socket.io/.
func (h *Hub) Handler() http.Handler { return h.server }
