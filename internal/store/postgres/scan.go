package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/notes/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanNote scans a single row into a model.Note.
// The row must contain columns in the order defined by noteColumns.
func scanNote(row scannable) (*model.Note, error) {
	var n model.Note
	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Content,
		&n.Status,
		&n.UserID,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// scanNotes scans multiple rows into a non-nil slice of notes.
func scanNotes(rows *sql.Rows) ([]*model.Note, error) {
	notes := []*model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// scanUser scans a single row into a model.User.
// The row must contain columns in the order defined by userColumns.
func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var fullName sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &fullName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.FullName = fullName.String
	return &u, nil
}

// scanSession scans a single row into a model.Session.
func scanSession(row scannable) (*model.Session, error) {
	var s model.Session
	if err := row.Scan(&s.Token, &s.UserID, &s.CreatedAt, &s.ExpiresAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		noteID  sql.NullInt64
		payload []byte
	)
	err := row.Scan(&e.ID, &e.Topic, &noteID, &e.UserID, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.NoteID = noteID.Int64
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullInt64 converts an id to sql.NullInt64; zero is null.
func nullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
// Empty payloads become an empty object.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return []byte("{}")
	}
	return []byte(m)
}
