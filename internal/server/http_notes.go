package server

import (
	"encoding/json"
	"net/http"
)

// noteInput is the JSON body of create and update requests.
type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// handleListNotes handles GET /api/notes.
func (s *NotesServer) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeNoteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// handleCreateNote handles POST /api/notes.
func (s *NotesServer) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var in noteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := s.createNote(r.Context(), userIDFrom(r.Context()), in.Title, in.Content)
	if err != nil {
		s.writeNoteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// handleUpdateNote handles PUT /api/notes/{id}.
func (s *NotesServer) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	var in noteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	note, err := s.updateNote(r.Context(), userIDFrom(r.Context()), id, in.Title, in.Content)
	if err != nil {
		s.writeNoteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// handleToggleNote handles PATCH /api/notes/{id}/toggle.
func (s *NotesServer) handleToggleNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	status, err := s.toggleNote(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.writeNoteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

// handleDeleteNote handles DELETE /api/notes/{id}.
func (s *NotesServer) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := s.deleteNote(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.writeNoteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
