package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alfredjeanlab/notes/internal/events"
	"github.com/alfredjeanlab/notes/internal/idgen"
	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

type userIDKey struct{}

// userIDFrom returns the authenticated user id stored by requireAuth.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey{}).(int64)
	return id
}

// requireAuth rejects requests without a live session with 401 and passes
// the session's user id to next through the request context.
func (s *NotesServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(model.SessionCookieName)
		if err != nil || !idgen.IsSessionToken(cookie.Value) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sess, err := s.store.GetSession(r.Context(), cookie.Value)
		if err != nil {
			if !isNotFound(err) {
				s.logger.Error("session lookup failed", "err", err)
			}
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if sess.Expired(s.now()) {
			if err := s.store.DeleteSession(r.Context(), sess.Token); err != nil {
				s.logger.Warn("failed to delete expired session", "user_id", sess.UserID, "err", err)
			}
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, sess.UserID)
		next(w, r.WithContext(ctx))
	}
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// handleLogin handles POST /api/login.
func (s *NotesServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), in.Username)
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("user lookup failed", "username", in.Username, "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := idgen.SessionToken()
	if err != nil {
		s.logger.Error("session token generation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	now := s.now().UTC()
	sess := &model.Session{
		Token:     token,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(r.Context(), sess); err != nil {
		s.logger.Error("create session failed", "user_id", user.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, s.sessionCookie(sess))
	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user.Identity(),
	})
}

// handleRegister handles POST /api/register.
func (s *NotesServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" || in.Email == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Error processing password")
		return
	}

	user := &model.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		FullName:     strings.TrimSpace(in.FullName),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		s.logger.Error("create user failed", "username", in.Username, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicUserRegistered, 0, user.ID, events.UserRegistered{
		UserID:   user.ID,
		Username: user.Username,
	})
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

// handleLogout handles POST /api/logout. The cookie is cleared even when no
// session exists.
func (s *NotesServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(model.SessionCookieName); err == nil && cookie.Value != "" {
		if err := s.store.DeleteSession(r.Context(), cookie.Value); err != nil {
			s.logger.Error("delete session failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	http.SetCookie(w, s.expiredCookie())
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// handleCurrentUser handles GET /api/user.
func (s *NotesServer) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		if !isNotFound(err) {
			s.logger.Error("user lookup failed", "err", err)
		}
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *NotesServer) sessionCookie(sess *model.Session) *http.Cookie {
	return &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *NotesServer) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
