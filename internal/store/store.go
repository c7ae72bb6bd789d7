package store

import (
	"context"
	"errors"
	"time"

	"github.com/alfredjeanlab/notes/internal/model"
)

// ErrConflict is returned when a unique constraint (username, email) is
// violated.
var ErrConflict = errors.New("conflict")

// Store defines the persistence interface for users, sessions and notes.
// Lookups of missing rows return sql.ErrNoRows. Note operations are scoped
// to the owning user: a note owned by someone else is reported as missing.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Sessions
	CreateSession(ctx context.Context, sess *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Notes
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, userID, id int64) (*model.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]*model.Note, error) // newest first
	ListAllNotes(ctx context.Context) ([]*model.Note, error)            // every user, by id
	UpdateNote(ctx context.Context, note *model.Note) error
	SetNoteStatus(ctx context.Context, userID, id int64, status model.Status) error
	DeleteNote(ctx context.Context, userID, id int64) error

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	GetEvents(ctx context.Context, noteID int64) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
