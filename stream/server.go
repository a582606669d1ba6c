// Package stream serves simulation snapshots to websocket clients and
// relays simple control commands back to the run loop.
package stream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/broth/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Control is a command a client may send while watching a run:
// {"type":"pause"}, {"type":"resume"}, or a parameter override
// {"type":"set","param":"chemotaxis_gain","value":1.2}.
type Control struct {
	Type  string  `json:"type"`
	Param string  `json:"param,omitempty"`
	Value float64 `json:"value,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Server broadcasts snapshots to connected clients. Publish never
// blocks the simulation; when the queue is full the oldest snapshot
// is dropped in favour of the new one.
type Server struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	httpSrv *http.Server

	queue chan *telemetry.Snapshot
	done  chan struct{}
	once  sync.Once

	onControl func(Control)
}

// NewServer creates a broadcaster. onControl receives client commands
// and may be nil.
func NewServer(onControl func(Control)) *Server {
	s := &Server{
		clients:   make(map[*client]struct{}),
		queue:     make(chan *telemetry.Snapshot, 8),
		done:      make(chan struct{}),
		onControl: onControl,
	}
	go s.broadcast()
	return s
}

// Publish queues a snapshot for broadcast without blocking the caller.
func (s *Server) Publish(snap *telemetry.Snapshot) {
	for {
		select {
		case s.queue <- snap:
			return
		case <-s.done:
			return
		default:
		}
		// Queue full: drop the oldest snapshot and retry.
		select {
		case <-s.queue:
		default:
		}
	}
}

// Close stops the broadcaster, disconnects all clients, and shuts down
// the listener when ListenAndServe is running.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		for c := range s.clients {
			c.conn.Close()
		}
		s.clients = make(map[*client]struct{})
		srv := s.httpSrv
		s.mu.Unlock()

		if srv != nil {
			if err := srv.Shutdown(context.Background()); err != nil {
				slog.Debug("stream listener shutdown", "error", err)
			}
		}
	})
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast() {
	for {
		select {
		case <-s.done:
			return
		case snap := <-s.queue:
			s.mu.Lock()
			list := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				list = append(list, c)
			}
			s.mu.Unlock()

			for _, c := range list {
				if err := c.send(snap); err != nil {
					slog.Debug("stream client dropped", "error", err)
					s.remove(c)
				}
			}
		}
	}
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.conn.Close()
	}
	s.mu.Unlock()
}

// ServeHTTP upgrades the request and reads control messages until the
// client disconnects.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	slog.Info("stream client connected", "remote", conn.RemoteAddr().String())

	for {
		var ctl Control
		if err := conn.ReadJSON(&ctl); err != nil {
			break
		}
		switch ctl.Type {
		case "pause", "resume", "set":
			if s.onControl != nil {
				s.onControl(ctl)
			}
		}
	}

	s.remove(c)
}

// ListenAndServe runs an HTTP server exposing the stream at /ws.
// It blocks until the listener fails or Close shuts it down, returning
// http.ErrServerClosed in the latter case.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)

	srv := &http.Server{Addr: addr, Handler: mux}
	s.mu.Lock()
	s.httpSrv = srv
	s.mu.Unlock()

	slog.Info("stream server listening", "addr", addr)
	return srv.ListenAndServe()
}
