package apiserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type wshandler struct {
	server *Server
	conn   *websocket.Conn
}

// serveSocket streams every published frame as a binary PNG message.
func (s *Server) serveSocket(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("websocket upgrade")
		return
	}
	wh := wshandler{server: s, conn: c}
	endch := make(chan struct{})
	go wh.read(endch)
	go wh.write(endch)
}

// read drains client messages; the stream is one-way.
func (h *wshandler) read(endch chan struct{}) {
	defer close(endch)
	for {
		if _, _, err := h.conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.server.log.WithError(err).Debug("websocket read")
			}
			return
		}
	}
}

func (h *wshandler) write(endch chan struct{}) {
	defer h.conn.Close()
	ch := make(chan []byte, 2)
	frame := h.server.addListener(ch)
	defer h.server.removeListener(ch)
	if frame != nil {
		if err := h.send(frame); err != nil {
			h.server.log.WithError(err).Debug("websocket send")
			return
		}
	}
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case frame := <-ch:
			if err := h.send(frame); err != nil {
				h.server.log.WithError(err).Debug("websocket send")
				return
			}
		case <-t.C:
			h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := h.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.server.log.WithError(err).Debug("websocket ping")
				return
			}
		case <-endch:
			return
		}
	}
}

func (h *wshandler) send(frame []byte) error {
	h.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return h.conn.WriteMessage(websocket.BinaryMessage, frame)
}
