// Package ws serves games to browser and bot clients over WebSocket.
//
// Each connection gets its own game and runner goroutine. Clients send
// JSON intents; the server answers with a hello, then full snapshots
// whenever the game changes.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall"
	"github.com/vovakirdan/rockfall/internal/registry"
	"github.com/vovakirdan/rockfall/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// GameFactory creates the game for a new connection.
type GameFactory func(gameID string) (RunnerGame, error)

// Config holds configuration for the WebSocket server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Path is the HTTP path of the WebSocket endpoint.
	Path string

	// TickRate is the frame rate of each connection's game loop.
	TickRate int

	// DefaultGame is used when the client does not pass ?game=.
	DefaultGame string

	// Store receives scores and level runs. Optional.
	Store *storage.Store

	// Logger is used for server and session logs.
	Logger *log.Logger

	// NewGame overrides game creation. Defaults to the registry.
	NewGame GameFactory

	// CheckOrigin overrides the upgrader's origin check.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:     ":8080",
		Path:        "/ws",
		TickRate:    60,
		DefaultGame: rockfall.CampaignID,
	}
}

// Server accepts WebSocket connections and runs one game per connection.
type Server struct {
	config   Config
	logger   *log.Logger
	upgrader websocket.Upgrader
	sessions *Registry
	http     *http.Server
	nextID   atomic.Uint64
}

// NewServer creates a server. It does not start listening.
func NewServer(cfg Config) *Server {
	def := DefaultConfig()
	if cfg.Path == "" {
		cfg.Path = def.Path
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.DefaultGame == "" {
		cfg.DefaultGame = def.DefaultGame
	}
	if cfg.NewGame == nil {
		cfg.NewGame = registryGame
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "rockfall-ws",
		})
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		sessions: NewRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
	if s.upgrader.CheckOrigin == nil {
		s.upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// registryGame creates a registered game that can produce snapshots.
func registryGame(gameID string) (RunnerGame, error) {
	g, err := registry.Create(gameID)
	if err != nil {
		return nil, err
	}
	rg, ok := g.(RunnerGame)
	if !ok {
		return nil, fmt.Errorf("game %q does not support network play", gameID)
	}
	return rg, nil
}

// Sessions returns the number of open connections.
func (s *Server) Sessions() int {
	return s.sessions.Count()
}

// ServeHTTP upgrades the request and runs the session until it ends.
//
// Query parameters: game (registry ID), level (starting level ID) and
// seed (decimal int64).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID := q.Get("game")
	if gameID == "" {
		gameID = s.config.DefaultGame
	}
	seed := time.Now().UnixNano()
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = v
	}

	game, err := s.config.NewGame(gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	game.Reset(core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: s.config.TickRate,
		Seed:     seed,
	})
	if level := q.Get("level"); level != "" {
		sel, ok := game.(registry.LevelSelector)
		if !ok {
			http.Error(w, "game has no levels", http.StatusBadRequest)
			return
		}
		if err := sel.SelectLevel(level); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	id := SessionID("ws-" + strconv.FormatUint(s.nextID.Add(1), 10))
	logger := s.logger.With("session", id)
	session := NewSession(id, 64)
	s.sessions.Register(session)
	defer s.sessions.Unregister(id)

	start := time.Now()
	logger.Info("session started", "remote", r.RemoteAddr, "game", gameID)
	defer func() {
		logger.Info("session ended", "duration", time.Since(start).Round(time.Second))
	}()

	hello := helloMessage{
		Ver:     ProtocolVersion,
		Type:    MsgHello,
		Session: id,
		GameID:  game.ID(),
		Title:   game.Title(),
	}
	if sel, ok := game.(registry.LevelSelector); ok {
		hello.Levels = sel.Levels()
	}
	session.Send(hello)

	run := newRunner(game, session, s.config.Store, logger, s.config.TickRate)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump(conn, session, logger)
	}()
	go run.Run()

	s.readPump(conn, run, session, logger)
	run.Stop()
	session.Close()
	<-writerDone
	_ = conn.Close()
}

// readPump parses client messages and forwards them to the runner.
func (s *Server) readPump(conn *websocket.Conn, run *runner, session *Session, logger *log.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("read failed", "err", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			logger.Debug("discarding malformed message", "err", err)
			session.Send(newError("malformed message"))
			continue
		}

		cmd, err := toCommand(msg)
		if err != nil {
			session.Send(newError(err.Error()))
			continue
		}
		if !run.Submit(cmd) {
			logger.Debug("input dropped", "type", msg.Type)
		}

		select {
		case <-session.Done():
			return
		default:
		}
	}
}

// toCommand validates a client message.
func toCommand(msg clientMessage) (command, error) {
	switch msg.Type {
	case MsgInput:
		a, ok := parseAction(msg.Action)
		if !ok {
			return command{}, fmt.Errorf("unknown action %q", msg.Action)
		}
		return command{kind: MsgInput, action: a}, nil
	case MsgHold:
		a, ok := parseAction(msg.Action)
		if !ok || !a.IsDirection() {
			return command{}, fmt.Errorf("cannot hold %q", msg.Action)
		}
		return command{kind: MsgHold, action: a}, nil
	case MsgRelease:
		return command{kind: MsgRelease}, nil
	case MsgSelect:
		if msg.Level == "" {
			return command{}, errors.New("select needs a level")
		}
		return command{kind: MsgSelect, level: msg.Level}, nil
	default:
		return command{}, fmt.Errorf("unknown message type %q", msg.Type)
	}
}

// writePump sends queued messages and keepalive pings.
// After the session ends it flushes what is left and closes politely.
func (s *Server) writePump(conn *websocket.Conn, session *Session, logger *log.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(msg any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			logger.Debug("write failed", "err", err)
			session.Close()
			return false
		}
		return true
	}

	for {
		select {
		case msg := <-session.Outbound():
			if !write(msg) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				session.Close()
				return
			}
		case <-session.Done():
			for {
				select {
				case msg := <-session.Outbound():
					if !write(msg) {
						return
					}
				default:
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"),
						time.Now().Add(writeWait))
					// Unblock the reader if the client never answers the close.
					_ = conn.SetReadDeadline(time.Now().Add(writeWait))
					return
				}
			}
		}
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", s.config.Address, err)
	}
	s.logger.Info("starting WebSocket server", "address", l.Addr().String(), "path", s.config.Path)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(l)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down WebSocket server")
	return s.Shutdown()
}

// Serve accepts connections on an existing listener until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	err := s.http.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown closes every session and stops the server.
func (s *Server) Shutdown() error {
	s.sessions.CloseAll()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Address
}
