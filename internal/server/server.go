// Package server implements the notes REST API: session authentication,
// per-user note CRUD and mutation events.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alfredjeanlab/notes/internal/events"
	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

// DefaultSessionTTL is how long a login stays valid when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// NotesServer serves the notes API on top of a store and an event publisher.
type NotesServer struct {
	store        store.Store
	publisher    events.Publisher
	logger       *slog.Logger
	cookieSecure bool
	sessionTTL   time.Duration
	bcryptCost   int
	now          func() time.Time
}

// Option configures a NotesServer.
type Option func(*NotesServer)

// WithLogger sets the logger used for request failures and events.
func WithLogger(l *slog.Logger) Option {
	return func(s *NotesServer) { s.logger = l }
}

// WithCookieSecure marks the session cookie Secure (HTTPS only).
func WithCookieSecure(secure bool) Option {
	return func(s *NotesServer) { s.cookieSecure = secure }
}

// WithSessionTTL sets the lifetime of new sessions.
func WithSessionTTL(d time.Duration) Option {
	return func(s *NotesServer) {
		if d > 0 {
			s.sessionTTL = d
		}
	}
}

// WithBcryptCost overrides the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *NotesServer) { s.bcryptCost = cost }
}

// NewNotesServer returns a NotesServer backed by the given store and publisher.
func NewNotesServer(s store.Store, p events.Publisher, opts ...Option) *NotesServer {
	srv := &NotesServer{
		store:      s,
		publisher:  p,
		logger:     slog.Default(),
		sessionTTL: DefaultSessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *NotesServer) recordAndPublish(ctx context.Context, topic string, noteID, userID int64, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event", "topic", topic, "note_id", noteID, "err", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:   topic,
		NoteID:  noteID,
		UserID:  userID,
		Payload: payload,
	}); err != nil {
		s.logger.Warn("failed to record event", "topic", topic, "note_id", noteID, "err", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "note_id", noteID, "err", err)
	}
}

// inputError indicates invalid user input.
// Handlers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
