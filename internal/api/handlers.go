package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/roach88/timers/internal/engine"
	"github.com/roach88/timers/internal/timer"
)

// maxBodyBytes bounds request bodies; a timer form is two short strings.
const maxBodyBytes = 64 << 10

// ListResponse is the body of GET /timers.
type ListResponse struct {
	Version int64         `json:"version"`
	Timers  []timer.Timer `json:"timers"`
}

// FormRequest is the body of POST /timers and PUT /timers/{id}.
type FormRequest struct {
	Title   string `json:"title"`
	Project string `json:"project"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type acceptedResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	snap := s.svc.Snapshot()
	writeJSON(w, http.StatusOK, listResponse(snap))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	t, ok := s.svc.Snapshot().Timers.Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("timer %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.accepted(w, s.svc.SubmitCreate(timer.CreatePayload{Title: req.Title, Project: req.Project}))
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	s.accepted(w, s.svc.SubmitEdit(timer.EditPayload{ID: id, Title: req.Title, Project: req.Project}))
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.accepted(w, s.svc.SubmitRemove(mux.Vars(r)["id"]))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	s.accepted(w, s.svc.SubmitToggle(mux.Vars(r)["id"]))
}

// handleEvents streams one server-sent event per list replacement.
// A client that falls more than eventBuffer changes behind misses the
// oldest ones; the next event still carries the full list.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	changes := make(chan engine.Change, s.eventBuffer)
	cancel := s.svc.Subscribe(engine.ObserverFunc(func(c engine.Change) {
		// Never block the engine goroutine.
		select {
		case changes <- c:
		default:
		}
	}))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Prime the client with the current list.
	if err := writeEvent(w, "snapshot", listResponse(s.svc.Snapshot())); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case c := <-changes:
			ev := changeEvent{
				Intent:       c.Intent.Kind.String(),
				TimerID:      c.Intent.TimerID,
				ListResponse: ListResponse{Version: c.Version, Timers: timersOrEmpty(c.Timers)},
			}
			if err := writeEvent(w, "change", ev); err != nil {
				slog.Debug("event stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

type changeEvent struct {
	Intent  string `json:"intent"`
	TimerID string `json:"timer_id,omitempty"`
	ListResponse
}

func (s *Server) accepted(w http.ResponseWriter, ok bool) {
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "engine stopped")
		return
	}
	writeJSON(w, http.StatusAccepted, acceptedResponse{Status: "accepted"})
}

func listResponse(snap engine.Snapshot) ListResponse {
	return ListResponse{Version: snap.Version, Timers: timersOrEmpty(snap.Timers)}
}

// timersOrEmpty keeps "timers": [] rather than null in JSON output.
func timersOrEmpty(l timer.List) []timer.Timer {
	if l == nil {
		return []timer.Timer{}
	}
	return l
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
