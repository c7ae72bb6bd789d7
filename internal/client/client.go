// Package client provides a transport-agnostic interface for the notes
// service and an HTTP/JSON implementation that talks to its REST API.
package client

import (
	"context"

	"github.com/alfredjeanlab/notes/internal/model"
)

// NotesClient is the gateway every client-side component uses to reach the
// notes server. It is implemented by HTTPClient and can be backed by any
// transport. Every failure is returned as an *OperationError.
type NotesClient interface {
	// Notes
	ListNotes(ctx context.Context) ([]*model.Note, error)
	CreateNote(ctx context.Context, draft model.Draft) (*model.Note, error)
	UpdateNote(ctx context.Context, id int64, draft model.Draft) (*model.Note, error)
	ToggleStatus(ctx context.Context, id int64) (model.Status, error)
	DeleteNote(ctx context.Context, id int64) error

	// Session
	CurrentUser(ctx context.Context) (*model.Identity, error)
	Login(ctx context.Context, req *LoginRequest) (*model.Identity, error)
	Register(ctx context.Context, req *RegisterRequest) error
	Logout(ctx context.Context) error

	// Lifecycle
	Close() error
}

// LoginRequest holds the credentials for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest holds the parameters for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

// loginResponse is the body returned by POST /api/login.
type loginResponse struct {
	Message string          `json:"message"`
	User    *model.Identity `json:"user"`
}

// toggleResponse is the body returned by PATCH /api/notes/{id}/toggle.
type toggleResponse struct {
	Status model.Status `json:"status"`
}
