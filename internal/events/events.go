package events

import (
	"context"

	"github.com/alfredjeanlab/notes/internal/model"
)

// Event topic constants
const (
	TopicNoteCreated = "notes.note.created"
	TopicNoteUpdated = "notes.note.updated"
	TopicNoteToggled = "notes.note.toggled"
	TopicNoteDeleted = "notes.note.deleted"

	TopicUserRegistered = "notes.user.registered"

	// TopicAll matches every topic above.
	TopicAll = "notes.>"
)

// Event types

type NoteCreated struct {
	Note *model.Note `json:"note"`
}

type NoteUpdated struct {
	Note *model.Note `json:"note"`
}

type NoteToggled struct {
	NoteID int64        `json:"note_id"`
	UserID int64        `json:"user_id"`
	Status model.Status `json:"status"`
}

type NoteDeleted struct {
	NoteID int64 `json:"note_id"`
	UserID int64 `json:"user_id"`
}

type UserRegistered struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
