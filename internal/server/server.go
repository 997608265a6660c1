// Package server bridges the table to browser clients over WebSocket.
// Every client sees the same table; pointer, hover and click telemetry from
// all of them feeds the shared seed generator.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/tarotshuffle/internal/deckstack"
	"github.com/lox/tarotshuffle/internal/seed"
)

const (
	// DefaultNoticeDelay is how long "Shuffling..." shows before the deck moves
	DefaultNoticeDelay = 300 * time.Millisecond

	// NoticeClearDelay is how long the completion notice stays up
	NoticeClearDelay = 800 * time.Millisecond
)

// Server represents the WebSocket server
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	table       *deckstack.Coordinator
	seeds       *seed.Generator
	clock       quartz.Clock
	noticeDelay time.Duration
	origins     []string
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	runOnce     sync.Once
	unsubscribe func()

	noticeMu   sync.Mutex
	clearTimer *quartz.Timer
	pending    map[*quartz.Timer]struct{}
}

// Option configures a Server
type Option func(*Server)

// WithNoticeDelay sets how long a pending notice shows before the operation
// applies. Zero applies it immediately.
func WithNoticeDelay(d time.Duration) Option {
	return func(s *Server) { s.noticeDelay = d }
}

// WithAllowedOrigins restricts which browser origins may connect. Hosts are
// compared case-insensitively; an empty list allows every origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// NewServer creates a WebSocket server for table
func NewServer(addr string, table *deckstack.Coordinator, seeds *seed.Generator, clock quartz.Clock, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr:        addr,
		table:       table,
		seeds:       seeds,
		clock:       clock,
		noticeDelay: DefaultNoticeDelay,
		connections: make(map[*Connection]bool),
		pending:     make(map[*quartz.Timer]struct{}),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:     s.checkOrigin,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	s.unsubscribe = table.Subscribe(s.publish)
	return s
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(s.origins, func(allowed string) bool {
		return strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin)
	})
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	_ = s.Stop()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return shutdownErr
}

// Stop closes every connection and detaches from the table
func (s *Server) Stop() error {
	s.cancel()
	s.unsubscribe()

	s.noticeMu.Lock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	for t := range s.pending {
		t.Stop()
	}
	clear(s.pending)
	s.noticeMu.Unlock()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "session", conn.SessionID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "session", conn.SessionID(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, uuid.NewString())

	// Queue the greeting before registering so no broadcast overtakes it.
	if msg, err := NewMessage(s.clock.Now(), MessageTypeWelcome, WelcomeData{SessionID: client.SessionID()}); err == nil {
		_ = client.SendMessage(msg)
	}
	if msg, err := s.stateMessage(s.table.Snapshot()); err == nil {
		_ = client.SendMessage(msg)
	}

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Broadcast sends a message to every connected client
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.SendMessage(msg)
	}
}

// ConnectionCount returns the number of connected clients
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// publish turns a table snapshot into a broadcast. Ticks carry only the
// deck; everything else carries the full table and the session log.
func (s *Server) publish(snap deckstack.Snapshot) {
	var (
		msg *Message
		err error
	)
	if snap.Event == deckstack.EventTick {
		msg, err = NewMessage(s.clock.Now(), MessageTypeTick, TickData{Deck: snap.Deck, Running: snap.Running})
	} else {
		msg, err = s.stateMessage(snap)
	}
	if err != nil {
		s.logger.Error("Failed to create table message", "event", snap.Event, "error", err)
		return
	}
	s.Broadcast(msg)
}

func (s *Server) stateMessage(snap deckstack.Snapshot) (*Message, error) {
	return NewMessage(s.clock.Now(), MessageTypeState, StateData{
		Table:      snap,
		SessionLog: s.table.SessionLog(),
	})
}

func (s *Server) notice(text string) {
	msg, err := NewMessage(s.clock.Now(), MessageTypeNotice, NoticeData{Message: text})
	if err != nil {
		s.logger.Error("Failed to create notice", "error", err)
		return
	}
	s.Broadcast(msg)
}

// withNotice announces pending, applies op after the notice delay and then
// announces done. The done notice clears itself after NoticeClearDelay. A
// rejected op is reported to the requesting connection only.
func (s *Server) withNotice(requester *Connection, action Action, pending, done string, op func() error) {
	apply := func() {
		if err := op(); err != nil {
			s.notice("")
			requester.sendActionError(action, err)
			return
		}
		s.notice(done)
		s.scheduleClear()
	}

	if s.noticeDelay <= 0 {
		apply()
		return
	}

	s.noticeMu.Lock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
	var timer *quartz.Timer
	timer = s.clock.AfterFunc(s.noticeDelay, func() {
		s.noticeMu.Lock()
		_, live := s.pending[timer]
		delete(s.pending, timer)
		s.noticeMu.Unlock()
		if live && s.ctx.Err() == nil {
			apply()
		}
	}, "server", "notice")
	s.pending[timer] = struct{}{}
	s.noticeMu.Unlock()

	s.notice(pending)
}

func (s *Server) scheduleClear() {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	s.clearTimer = s.clock.AfterFunc(NoticeClearDelay, func() { s.notice("") }, "server", "notice-clear")
}
