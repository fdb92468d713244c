// Package stream serves a live surface over websockets. One goroutine owns
// the tick loop; clients receive sampled frames and may inject impulses.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/wavesim/internal/sim"
	"github.com/san-kum/wavesim/internal/wave"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var ErrInvalidConfig = errors.New("wavesim: invalid stream config")

type Config struct {
	Dt        float64 // simulation tick in seconds
	FrameRate float64 // frames broadcast per second
	Samples   int     // points per frame
	Wrapped   bool    // sample with SampleHeightWrapped
	Radius    float64 // default impulse radius
}

func DefaultConfig() Config {
	return Config{
		Dt:        1.0 / 60,
		FrameRate: 30,
		Samples:   256,
		Radius:    2,
	}
}

func (c Config) validate() error {
	if !(c.Dt > 0) || !(c.FrameRate > 0) || c.Samples < 2 || c.Radius < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// Server steps a surface at a fixed rate and fans frames out to clients.
type Server struct {
	surf   *sim.SyncSurface
	clock  sim.Clock
	cfg    Config
	logger *slog.Logger
	pool   *sim.FramePool

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
	t       float64
	seq     uint64
}

// New builds a server. clock may be nil when parameters do not vary in time.
func New(surf *sim.SyncSurface, clock sim.Clock, cfg Config, logger *slog.Logger) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		surf:   surf,
		clock:  clock,
		cfg:    cfg,
		logger: logger,
		pool:   sim.NewFramePool(cfg.Samples),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*Client),
	}, nil
}

// Handler exposes /ws and a /healthz probe.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"clients": s.ClientCount(),
			"time":    s.Time(),
		})
	})
	return mux
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := newClient(uuid.NewString(), conn, s)
	s.register(c)

	go c.writePump()
	go c.readPump()

	c.send(ServerMessage{Type: "welcome", ID: c.id, Width: s.width(), Samples: s.cfg.Samples})
}

func (s *Server) register(c *Client) {
	s.mu.Lock()
	s.clients[c.id] = c
	n := len(s.clients)
	s.mu.Unlock()
	s.logger.Info("client connected", "id", c.id, "clients", n)
}

// unregister is idempotent; both pumps call it on exit.
func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	_, ok := s.clients[c.id]
	if ok {
		delete(s.clients, c.id)
		close(c.out)
	}
	n := len(s.clients)
	s.mu.Unlock()
	if ok {
		s.logger.Info("client disconnected", "id", c.id, "clients", n)
	}
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Time is the simulated time of the last completed tick.
func (s *Server) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t
}

func (s *Server) width() float64 {
	var w float64
	s.surf.View(func(r wave.Reader) { w = r.Width() })
	return w
}

// Run ticks the surface and broadcasts frames until ctx is cancelled. It
// closes every client connection before returning.
func (s *Server) Run(ctx context.Context) error {
	step := time.NewTicker(time.Duration(s.cfg.Dt * float64(time.Second)))
	defer step.Stop()
	frame := time.NewTicker(time.Duration(float64(time.Second) / s.cfg.FrameRate))
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		case <-step.C:
			s.Tick()
		case <-frame.C:
			s.Broadcast()
		}
	}
}

// Tick advances the clock and the surface by one fixed step.
func (s *Server) Tick() wave.StepStats {
	t := s.Time()
	if s.clock != nil {
		s.clock.SetTime(t)
	}
	st := s.surf.Step(s.cfg.Dt)
	if !st.Skipped {
		s.mu.Lock()
		s.t = t + s.cfg.Dt
		s.mu.Unlock()
	}
	return st
}

// Frame samples the surface evenly across the grid.
func (s *Server) Frame() Frame {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	var f Frame
	s.surf.View(func(r wave.Reader) {
		f.OriginX = r.OriginX()
		f.Width = r.Width()
		f.Phase = r.Phase()
		f.Energy = r.Energy()
		last := float64(len(buf) - 1)
		for i := range buf {
			x := f.OriginX + float64(i)/last*f.Width
			if s.cfg.Wrapped {
				buf[i] = r.SampleHeightWrapped(x)
			} else {
				buf[i] = r.SampleHeight(x)
			}
		}
	})
	f.Heights = append([]float64(nil), buf...)

	s.mu.Lock()
	s.seq++
	f.Seq = s.seq
	f.Time = s.t
	s.mu.Unlock()
	return f
}

// Broadcast sends the current frame to every client.
func (s *Server) Broadcast() {
	if s.ClientCount() == 0 {
		return
	}
	f := s.Frame()
	data, err := json.Marshal(ServerMessage{Type: "frame", Frame: &f})
	if err != nil {
		s.logger.Error("encode frame", "err", err)
		return
	}

	s.mu.Lock()
	targets := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, c := range targets {
		c.enqueue(data)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	targets := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		targets = append(targets, c)
	}
	s.mu.Unlock()
	for _, c := range targets {
		s.unregister(c)
	}
}

// handle applies one client message.
func (s *Server) handle(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "impulse":
		radius := msg.Radius
		if radius <= 0 {
			radius = s.cfg.Radius
		}
		n := s.surf.AddImpulse(msg.X, msg.Force, radius)
		s.logger.Debug("impulse", "client", c.id, "x", msg.X, "force", msg.Force, "nodes", n)
	case "recenter":
		s.surf.Recenter(msg.X)
	case "ping":
		c.send(ServerMessage{Type: "pong"})
	default:
		c.send(ServerMessage{Type: "error", Error: "unknown message type " + msg.Type})
	}
}
