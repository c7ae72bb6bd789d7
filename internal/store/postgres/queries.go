package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

// noteColumns is the column list used for SELECT statements on the notes table.
const noteColumns = `id, title, content, status, user_id, created_at, updated_at`

// userColumns is the column list used for SELECT statements on the users table.
const userColumns = `id, username, password, email, full_name, created_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// --- Users ---

func queryCreateUser(ctx context.Context, db executor, u *model.User) error {
	err := db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, email, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.Email, u.FullName,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("create user %q: %w", u.Username, store.ErrConflict)
	}
	return err
}

func queryGetUser(ctx context.Context, db executor, id int64) (*model.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func queryGetUserByUsername(ctx context.Context, db executor, username string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// --- Sessions ---

func queryCreateSession(ctx context.Context, db executor, s *model.Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`,
		s.Token, s.UserID, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

func queryGetSession(ctx context.Context, db executor, token string) (*model.Session, error) {
	row := db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = $1`, token)
	return scanSession(row)
}

func queryDeleteSession(ctx context.Context, db executor, token string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func queryDeleteExpiredSessions(ctx context.Context, db executor, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Notes ---

func queryCreateNote(ctx context.Context, db executor, n *model.Note) error {
	if n.Status == "" {
		n.Status = model.StatusPending
	}
	return db.QueryRowContext(ctx, `
		INSERT INTO notes (title, content, status, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		n.Title, n.Content, string(n.Status), n.UserID,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
}

func queryGetNote(ctx context.Context, db executor, userID, id int64) (*model.Note, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	return scanNote(row)
}

func queryListNotes(ctx context.Context, db executor, userID int64) ([]*model.Note, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

func queryListAllNotes(ctx context.Context, db executor) ([]*model.Note, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all notes: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows)
}

// queryUpdateNote replaces title and content of a note the user owns and
// fills in the stored status and updated_at.
func queryUpdateNote(ctx context.Context, db executor, n *model.Note) error {
	return db.QueryRowContext(ctx, `
		UPDATE notes
		SET title = $1, content = $2, updated_at = now()
		WHERE id = $3 AND user_id = $4
		RETURNING status, created_at, updated_at`,
		n.Title, n.Content, n.ID, n.UserID,
	).Scan(&n.Status, &n.CreatedAt, &n.UpdatedAt)
}

func querySetNoteStatus(ctx context.Context, db executor, userID, id int64, status model.Status) error {
	res, err := db.ExecContext(ctx, `
		UPDATE notes
		SET status = $1, updated_at = now()
		WHERE id = $2 AND user_id = $3`,
		string(status), id, userID,
	)
	return requireAffected(res, err)
}

func queryDeleteNote(ctx context.Context, db executor, userID, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	return requireAffected(res, err)
}

// --- Events ---

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, note_id, user_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, nullInt64(e.NoteID), e.UserID, jsonbBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryGetEvents(ctx context.Context, db executor, noteID int64) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, note_id, user_id, payload, created_at
		FROM events WHERE note_id = $1 ORDER BY created_at, id`, noteID)
	if err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// requireAffected turns a statement that touched no rows into sql.ErrNoRows.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
