package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/clipslots/config"
	"markestedt/clipslots/metrics"
	"markestedt/clipslots/slots"
	"markestedt/clipslots/storage"
)

//go:embed static/*
var staticFiles embed.FS

// Server represents the web server
type Server struct {
	store   *slots.Store
	db      *storage.DB // nil when history is disabled
	sampler *metrics.Sampler
	config  *config.Config
	port    int
	hub     *Hub

	upgrader websocket.Upgrader
}

// NewServer creates a new web server. db and sampler may be nil.
func NewServer(store *slots.Store, db *storage.DB, sampler *metrics.Sampler, cfg *config.Config, port int) *Server {
	hub := NewHub()
	go hub.Run()

	s := &Server{
		store:   store,
		db:      db,
		sampler: sampler,
		config:  cfg,
		port:    port,
		hub:     hub,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin admits websocket clients with no Origin header or one served
// from this dashboard on a loopback host. Snapshots carry slot contents, so
// other pages must not connect.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		return false
	}

	return u.Port() == strconv.Itoa(s.port) || strings.EqualFold(u.Host, r.Host)
}

// Handler returns the HTTP routes
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()

	// API endpoints
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/slots", s.handleSlots)
	mux.HandleFunc("/api/slots/", s.handleSlot)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/", s.handleHistory)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/metrics", s.handleMetrics)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	return mux, nil
}

// Start serves on localhost until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		s.hub.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting web server", "port", s.port, "url", fmt.Sprintf("http://localhost:%d", s.port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// BroadcastChange pushes a slot action and the new snapshot to all
// connected clients. It has the signature of a slots subscriber.
func (s *Server) BroadcastChange(c slots.Change) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeAction,
		Data: ActionMessage{
			Kind:      c.Kind.String(),
			Slot:      c.Slot,
			Label:     slots.Label(c.Slot),
			Timestamp: c.Time.UTC().Format(time.RFC3339),
		},
	})
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeSlots,
		Data: SlotsMessage{Slots: slotViews(s.store.Snapshot())},
	})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	// New clients start from the current snapshot
	if initial, err := json.Marshal(Message{
		Type: MessageTypeSlots,
		Data: SlotsMessage{Slots: slotViews(s.store.Snapshot())},
	}); err == nil {
		client.send <- initial
	}

	select {
	case client.hub.register <- client:
	case <-client.hub.done:
		conn.Close()
		return
	}

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}
