package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// TimerService is the engine surface the API needs.
type TimerService interface {
	Snapshot() engine.Snapshot
	SubmitCreate(timer.CreatePayload) bool
	SubmitEdit(timer.EditPayload) bool
	SubmitRemove(id string) bool
	SubmitToggle(id string) bool
	Subscribe(engine.Observer) (cancel func())
}

// Server holds the HTTP handlers.
type Server struct {
	svc TimerService

	// eventBuffer is the per-client backlog for /events before changes
	// are dropped.
	eventBuffer int
}

// NewServer creates a Server backed by svc.
func NewServer(svc TimerService) *Server {
	return &Server{svc: svc, eventBuffer: 32}
}

// NewRouter wires the routes.
func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/timers", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/timers", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/timers/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/timers/{id}", s.handleEdit).Methods(http.MethodPut)
	r.HandleFunc("/timers/{id}", s.handleRemove).Methods(http.MethodDelete)
	r.HandleFunc("/timers/{id}/toggle", s.handleToggle).Methods(http.MethodPost)
	r.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
