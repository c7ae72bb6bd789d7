// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewWithDB wraps an already opened database without running migrations.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.db, user)
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return queryGetUser(ctx, s.db, id)
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return queryGetUserByUsername(ctx, s.db, username)
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *model.Session) error {
	return queryCreateSession(ctx, s.db, sess)
}

func (s *PostgresStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	return queryGetSession(ctx, s.db, token)
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	return queryDeleteSession(ctx, s.db, token)
}

func (s *PostgresStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return queryDeleteExpiredSessions(ctx, s.db, now)
}

func (s *PostgresStore) CreateNote(ctx context.Context, note *model.Note) error {
	return queryCreateNote(ctx, s.db, note)
}

func (s *PostgresStore) GetNote(ctx context.Context, userID, id int64) (*model.Note, error) {
	return queryGetNote(ctx, s.db, userID, id)
}

func (s *PostgresStore) ListNotes(ctx context.Context, userID int64) ([]*model.Note, error) {
	return queryListNotes(ctx, s.db, userID)
}

func (s *PostgresStore) ListAllNotes(ctx context.Context) ([]*model.Note, error) {
	return queryListAllNotes(ctx, s.db)
}

func (s *PostgresStore) UpdateNote(ctx context.Context, note *model.Note) error {
	return queryUpdateNote(ctx, s.db, note)
}

func (s *PostgresStore) SetNoteStatus(ctx context.Context, userID, id int64, status model.Status) error {
	return querySetNoteStatus(ctx, s.db, userID, id, status)
}

func (s *PostgresStore) DeleteNote(ctx context.Context, userID, id int64) error {
	return queryDeleteNote(ctx, s.db, userID, id)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) GetEvents(ctx context.Context, noteID int64) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.db, noteID)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.tx, user)
}

func (s *txStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return queryGetUser(ctx, s.tx, id)
}

func (s *txStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return queryGetUserByUsername(ctx, s.tx, username)
}

func (s *txStore) CreateSession(ctx context.Context, sess *model.Session) error {
	return queryCreateSession(ctx, s.tx, sess)
}

func (s *txStore) GetSession(ctx context.Context, token string) (*model.Session, error) {
	return queryGetSession(ctx, s.tx, token)
}

func (s *txStore) DeleteSession(ctx context.Context, token string) error {
	return queryDeleteSession(ctx, s.tx, token)
}

func (s *txStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return queryDeleteExpiredSessions(ctx, s.tx, now)
}

func (s *txStore) CreateNote(ctx context.Context, note *model.Note) error {
	return queryCreateNote(ctx, s.tx, note)
}

func (s *txStore) GetNote(ctx context.Context, userID, id int64) (*model.Note, error) {
	return queryGetNote(ctx, s.tx, userID, id)
}

func (s *txStore) ListNotes(ctx context.Context, userID int64) ([]*model.Note, error) {
	return queryListNotes(ctx, s.tx, userID)
}

func (s *txStore) ListAllNotes(ctx context.Context) ([]*model.Note, error) {
	return queryListAllNotes(ctx, s.tx)
}

func (s *txStore) UpdateNote(ctx context.Context, note *model.Note) error {
	return queryUpdateNote(ctx, s.tx, note)
}

func (s *txStore) SetNoteStatus(ctx context.Context, userID, id int64, status model.Status) error {
	return querySetNoteStatus(ctx, s.tx, userID, id, status)
}

func (s *txStore) DeleteNote(ctx context.Context, userID, id int64) error {
	return queryDeleteNote(ctx, s.tx, userID, id)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) GetEvents(ctx context.Context, noteID int64) ([]*model.Event, error) {
	return queryGetEvents(ctx, s.tx, noteID)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
