package model

import "time"

// Identity is the authenticated user's public profile as returned by
// GET /api/user.
type Identity struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName returns the full name when present, otherwise the username.
func (i *Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

// User is the server-side account record.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the public profile of the user.
func (u *User) Identity() *Identity {
	return &Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

// Session binds a random token to a user until it expires.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at t.
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// SessionCookieName is the cookie carrying the session token between the
// client and the server.
const SessionCookieName = "todolist-session"
