// Package server bridges a table to browser or scripted clients over a
// JSON WebSocket protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/fivedraw/internal/game"
	"github.com/lox/fivedraw/internal/table"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server represents the WebSocket server
type Server struct {
	addr        string
	table       *table.Table
	upgrader    websocket.Upgrader
	connections map[*Connection]struct{}
	logger      *log.Logger
	mu          sync.RWMutex
	unsubscribe func()
}

// NewServer creates a server broadcasting every event of t to its clients
func NewServer(addr string, t *table.Table, logger *log.Logger) *Server {
	s := &Server{
		addr:  addr,
		table: t,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The bridge serves a single local table
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]struct{}),
		logger:      logger.WithPrefix("server"),
	}
	s.unsubscribe = t.Subscribe(game.SubscriberFunc(s.broadcastEvent))
	return s
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Stop()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Stop closes every connection and detaches from the table
func (s *Server) Stop() {
	s.unsubscribe()

	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.table, s.logger)
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)

	conn.Start()
	conn.sendState()

	go func() {
		<-conn.Done()
		s.mu.Lock()
		delete(s.connections, conn)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "total", total)
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// broadcastEvent sends a round event to every client
func (s *Server) broadcastEvent(event game.Event) {
	msg, err := EventMessage(event)
	if err != nil {
		s.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		_ = conn.SendMessage(msg)
	}
}
