package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// Note and user routes require a valid session cookie.
func (s *NotesServer) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notes", s.requireAuth(s.handleListNotes))
	mux.HandleFunc("POST /api/notes", s.requireAuth(s.handleCreateNote))
	mux.HandleFunc("PUT /api/notes/{id}", s.requireAuth(s.handleUpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.requireAuth(s.handleDeleteNote))
	mux.HandleFunc("PATCH /api/notes/{id}/toggle", s.requireAuth(s.handleToggleNote))
	mux.HandleFunc("GET /api/user", s.requireAuth(s.handleCurrentUser))
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return instrument(mux)
}

// handleHealth handles GET /healthz.
func (s *NotesServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeNoteError maps a note operation failure to a response. Internal
// details go to the log only.
func (s *NotesServer) writeNoteError(w http.ResponseWriter, r *http.Request, err error) {
	var ie inputError
	switch {
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Error())
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "Note not found or unauthorized")
	default:
		s.logger.Error("note request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
