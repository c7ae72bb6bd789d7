package model

import (
	"time"
)

// Status represents the completion state of a note.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	}
	return false
}

// Toggled returns the opposite status. Unknown values flip to pending.
func (s Status) Toggled() Status {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

// Note is a single task record owned by one user.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// IsCompleted reports whether the note has been completed.
func (n *Note) IsCompleted() bool {
	return n.Status == StatusCompleted
}

// FindNote returns the note with the given id, or nil.
func FindNote(notes []*Note, id int64) *Note {
	for _, n := range notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
