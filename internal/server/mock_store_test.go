package server

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

// mockStore is an in-memory store.Store. Missing rows are sql.ErrNoRows,
// as with the postgres store.
type mockStore struct {
	mu       sync.Mutex
	users    map[int64]*model.User
	sessions map[string]*model.Session
	notes    map[int64]*model.Note
	events   []*model.Event
	nextID   int64
	clock    time.Time

	// failNext, when non-nil, is returned by the next note operation.
	failNext error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:    make(map[int64]*model.User),
		sessions: make(map[string]*model.Session),
		notes:    make(map[int64]*model.Note),
		clock:    time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC),
	}
}

func (m *mockStore) id() int64 {
	m.nextID++
	return m.nextID
}

// tick returns a strictly increasing timestamp.
func (m *mockStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockStore) takeFailure() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = m.id()
	u.CreatedAt = m.tick()
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (m *mockStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) CreateSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *s
	m.sessions[s.Token] = &clone
	return nil
}

func (m *mockStore) GetSession(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *s
	return &clone, nil
}

func (m *mockStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *mockStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m *mockStore) CreateNote(_ context.Context, n *model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	n.ID = m.id()
	n.CreatedAt = m.tick()
	n.UpdatedAt = n.CreatedAt
	clone := *n
	m.notes[n.ID] = &clone
	return nil
}

func (m *mockStore) GetNote(_ context.Context, userID, id int64) (*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return nil, sql.ErrNoRows
	}
	clone := *n
	return &clone, nil
}

func (m *mockStore) ListNotes(_ context.Context, userID int64) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	notes := []*model.Note{}
	for _, n := range m.notes {
		if n.UserID == userID {
			clone := *n
			notes = append(notes, &clone)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *mockStore) ListAllNotes(_ context.Context) ([]*model.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notes := []*model.Note{}
	for _, n := range m.notes {
		clone := *n
		notes = append(notes, &clone)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (m *mockStore) UpdateNote(_ context.Context, n *model.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	existing, ok := m.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return sql.ErrNoRows
	}
	existing.Title = n.Title
	existing.Content = n.Content
	existing.UpdatedAt = m.tick()
	n.Status = existing.Status
	n.CreatedAt = existing.CreatedAt
	n.UpdatedAt = existing.UpdatedAt
	return nil
}

func (m *mockStore) SetNoteStatus(_ context.Context, userID, id int64, status model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return sql.ErrNoRows
	}
	n.Status = status
	n.UpdatedAt = m.tick()
	return nil
}

func (m *mockStore) DeleteNote(_ context.Context, userID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure(); err != nil {
		return err
	}
	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return sql.ErrNoRows
	}
	delete(m.notes, id)
	return nil
}

func (m *mockStore) RecordEvent(_ context.Context, e *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.id()
	e.CreatedAt = m.tick()
	m.events = append(m.events, e)
	return nil
}

func (m *mockStore) GetEvents(_ context.Context, noteID int64) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Event
	for _, e := range m.events {
		if e.NoteID == noteID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

func (m *mockStore) topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Topic
	}
	return out
}

var errStoreDown = errors.New("store down")
