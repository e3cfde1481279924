// Package httpapi is an optional HTTP/WebSocket facade over the SDK
// (spec §11, "HTTP/WebSocket facade"): the orchestration core performs no
// network I/O itself, so this package wraps a constructed *sdk.SDK with a
// chi router exposing submit/tasks/undo as REST endpoints plus the event
// bus as an SSE stream and a WebSocket relay, mirroring the teacher's own
// gateway.Server + gateway/ws.Hub split.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/sdk"
)

// Server is the HTTP/WebSocket facade over one SDK instance.
type Server struct {
	sdk        *sdk.SDK
	httpServer *http.Server
	hub        *Hub
	host       string
	port       int
}

// NewServer builds a chi router exposing the SDK's operation surface and
// wires a WebSocket hub that relays the SDK's event bus.
func NewServer(s *sdk.SDK, host string, port int) *Server {
	hub := newHub(s.Bus)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	srv := &Server{sdk: s, hub: hub, host: host, port: port}

	r.Get("/api/health", srv.handleHealth)
	r.Post("/api/submit", srv.handleSubmit)
	r.Get("/api/tasks", srv.handleTasksList)
	r.Get("/api/tasks/{id}", srv.handleTaskGet)
	r.Post("/api/tasks/{id}/cancel", srv.handleTaskCancel)
	r.Post("/api/tasks/{id}/retry", srv.handleTaskRetry)
	r.Get("/api/undo/history", srv.handleUndoHistory)
	r.Post("/api/undo", srv.handleUndo)
	r.Post("/api/undo/{id}", srv.handleUndoByID)
	r.Get("/api/events", srv.handleEventsHistory)
	r.Get("/api/events/stream", srv.handleEventsSSE)
	r.Get("/api/ws", hub.ServeWS)

	srv.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: r,
	}
	return srv
}

// Start listens and serves, blocking until the server stops.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	corelog.For("httpapi").Info("httpapi facade listening", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server and closes the WebSocket hub.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEventsHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	writeJSON(w, http.StatusOK, s.sdk.Bus.History(limit))
}

// handleEventsSSE streams the event bus as text/event-stream, one JSON
// object per `data:` line, until the client disconnects.
func (s *Server) handleEventsSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, unsub := s.sdk.Bus.SubscribeChan(64)
	defer unsub()

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
