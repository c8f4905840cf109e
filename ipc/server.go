package ipc

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/glint-player/glint/compositor"
	"github.com/glint-player/glint/log"
	"github.com/glint-player/glint/metrics"
	"github.com/glint-player/glint/player"
	"github.com/glint-player/glint/util"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
)

// FrameHeaderSize is the length of the little-endian header of a binary overlay frame:
// x, y, width, height, full width and full height as uint32.
const FrameHeaderSize = 24

const (
	maxMessageSize = 256 * 1024 * 1024
	sendBuffer     = 256
	writeWait      = 5 * time.Second
	pingPeriod     = 15 * time.Second
)

var ErrShortFrame = errors.New("binary frame shorter than its header")

// DecodeFrame parses a binary overlay frame. Pixels alias data.
func DecodeFrame(data []byte) (compositor.Frame, error) {
	if len(data) < FrameHeaderSize {
		return compositor.Frame{}, ErrShortFrame
	}

	field := func(i int) int {
		return int(binary.LittleEndian.Uint32(data[i*4:]))
	}
	frame := compositor.Frame{
		X:          field(0),
		Y:          field(1),
		Width:      field(2),
		Height:     field(3),
		FullWidth:  field(4),
		FullHeight: field(5),
		Pixels:     data[FrameHeaderSize:],
	}
	return frame, frame.Validate()
}

// EncodeFrame is the inverse of DecodeFrame.
func EncodeFrame(f compositor.Frame) []byte {
	out := make([]byte, FrameHeaderSize+len(f.Pixels))
	for i, v := range []int{f.X, f.Y, f.Width, f.Height, f.FullWidth, f.FullHeight} {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	copy(out[FrameHeaderSize:], f.Pixels)
	return out
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Server accepts UI connections. Parsed requests and overlay frames are queued for the host thread,
// which is woken after each one.
type Server struct {
	frames *util.Queue[compositor.Frame]
	status func() player.Status
	wake   func()

	messages util.Queue[Message]
	upgrader websocket.Upgrader
	router   chi.Router

	mu      sync.Mutex
	clients map[*client]struct{}

	httpServer *http.Server
	listener   net.Listener
}

// NewServer wires the routes. frames receives decoded overlay frames; status backs /status.
func NewServer(frames *util.Queue[compositor.Frame], status func() player.Status, wake func()) *Server {
	if wake == nil {
		wake = func() {}
	}

	s := &Server{
		frames:  frames,
		status:  status,
		wake:    wake,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ipc", s.serveWebsocket)
	r.Get("/status", s.serveStatus)
	r.Get("/metrics", metrics.Handler().ServeHTTP)
	s.router = r

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.For("ipc").Errorf("serve: %s", err)
		}
	}()

	log.For("ipc").Infof("listening on %s", ln.Addr())
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and disconnects every client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		s.drop(c)
	}
	s.mu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Messages takes every queued request, oldest first.
func (s *Server) Messages() []Message {
	return s.messages.PopBatch(0)
}

// Clients returns the number of connected UIs.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Post broadcasts resp to every client. A client whose buffer is full is disconnected.
func (s *Server) Post(resp Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		log.For("ipc").Errorf("encode response: %s", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		select {
		case c.send <- payload:
		default:
			log.For("ipc").Warn("client too slow, disconnecting")
			s.drop(c)
		}
	}
}

// drop forgets c and closes its send channel. s.mu must be held.
func (s *Server) drop(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	c.close()
	metrics.IPCClients.Dec()
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.status == nil {
		_ = json.NewEncoder(w).Encode(player.Status{})
		return
	}
	_ = json.NewEncoder(w).Encode(s.status())
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.For("ipc").Warnf("websocket upgrade failed: %s", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	metrics.IPCClients.Inc()

	logger := log.For("ipc").WithField("remote", r.RemoteAddr)
	logger.Info("ui connected")

	defer func() {
		s.mu.Lock()
		s.drop(c)
		s.mu.Unlock()
		logger.Info("ui disconnected")
	}()

	go s.writeLoop(c)

	conn.SetReadLimit(maxMessageSize)
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warnf("read: %s", err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			msg, err := ParseRequest(data)
			if err != nil {
				logger.Warnf("dropping request: %s", err)
				continue
			}
			s.messages.Push(msg)
			s.wake()
		case websocket.BinaryMessage:
			frame, err := DecodeFrame(data)
			if err != nil {
				logger.Warnf("dropping overlay frame: %s", err)
				continue
			}
			s.frames.Push(frame)
			s.wake()
		}
	}
}

// writeLoop serializes writes to one connection, as gorilla/websocket requires.
func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
