// Package session resolves the authenticated identity at startup and sends
// the user to the login entry point when there is none.
package session

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alfredjeanlab/notes/internal/model"
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// ErrAuthRequired is returned when the identity could not be resolved. The
// gate has already navigated away; callers must stop.
var ErrAuthRequired = errors.New("authentication required")

// IdentityResolver fetches the current user's profile. client.NotesClient
// satisfies it.
type IdentityResolver interface {
	CurrentUser(ctx context.Context) (*model.Identity, error)
}

// Navigator performs a hard navigation away from the current page.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) { f(path) }

// Session is the authenticated identity for the lifetime of one page session.
// It is read-only once resolved.
type Session struct {
	identity model.Identity
}

// New returns a session for the given identity.
func New(ident model.Identity) *Session {
	return &Session{identity: ident}
}

// Identity returns a copy of the resolved identity.
func (s *Session) Identity() model.Identity {
	return s.identity
}

// Username returns the account name.
func (s *Session) Username() string {
	return s.identity.Username
}

// DisplayName returns the full name when present, otherwise the username.
func (s *Session) DisplayName() string {
	return s.identity.DisplayName()
}

// Gate resolves the identity once at startup.
type Gate struct {
	resolver IdentityResolver
	nav      Navigator
	logger   *slog.Logger
}

// NewGate returns a gate that asks resolver for the identity and uses nav to
// leave the page when that fails.
func NewGate(resolver IdentityResolver, nav Navigator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{resolver: resolver, nav: nav, logger: logger}
}

// Resolve fetches the identity. Any failure, whether a transport error or a
// non-success status, navigates to LoginPath and returns ErrAuthRequired.
// There is no retry.
func (g *Gate) Resolve(ctx context.Context) (*Session, error) {
	ident, err := g.resolver.CurrentUser(ctx)
	if err != nil || ident == nil || ident.Username == "" {
		g.logger.Debug("identity not resolved", "err", err)
		g.nav.Navigate(LoginPath)
		return nil, ErrAuthRequired
	}
	g.logger.Debug("identity resolved", "username", ident.Username)
	return New(*ident), nil
}
