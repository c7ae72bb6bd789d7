package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/notes/internal/events"
	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/store"
)

// errRequired is returned when a title or content is blank.
const errRequired = inputError("Title and content are required")

// checkDraft trims a submitted draft and applies the stored-note rules.
func checkDraft(title, content string) (model.Draft, error) {
	d := model.NewDraft(title, content)
	if d.Title == "" || d.Content == "" {
		return d, errRequired
	}
	if err := model.ValidateNote(&model.Note{Title: d.Title, Content: d.Content}); err != nil {
		return d, inputError(err.Error())
	}
	return d, nil
}

// createNote validates the draft, stores a pending note owned by userID and
// publishes a NoteCreated event.
func (s *NotesServer) createNote(ctx context.Context, userID int64, title, content string) (*model.Note, error) {
	d, err := checkDraft(title, content)
	if err != nil {
		return nil, err
	}
	note := &model.Note{
		Title:   d.Title,
		Content: d.Content,
		Status:  model.StatusPending,
		UserID:  userID,
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.recordAndPublish(ctx, events.TopicNoteCreated, note.ID, userID, events.NoteCreated{Note: note})
	return note, nil
}

// updateNote replaces the title and content of a note the user owns.
// A missing or foreign note is reported as sql.ErrNoRows.
func (s *NotesServer) updateNote(ctx context.Context, userID, id int64, title, content string) (*model.Note, error) {
	d, err := checkDraft(title, content)
	if err != nil {
		return nil, err
	}
	note := &model.Note{
		ID:      id,
		Title:   d.Title,
		Content: d.Content,
		UserID:  userID,
	}
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note %d: %w", id, err)
	}
	s.recordAndPublish(ctx, events.TopicNoteUpdated, id, userID, events.NoteUpdated{Note: note})
	return note, nil
}

// toggleNote flips a note between pending and completed and returns the new
// status. The read and the write share one transaction.
func (s *NotesServer) toggleNote(ctx context.Context, userID, id int64) (model.Status, error) {
	var next model.Status
	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		note, err := tx.GetNote(ctx, userID, id)
		if err != nil {
			return err
		}
		next = note.Status.Toggled()
		return tx.SetNoteStatus(ctx, userID, id, next)
	})
	if err != nil {
		return "", fmt.Errorf("toggle note %d: %w", id, err)
	}
	s.recordAndPublish(ctx, events.TopicNoteToggled, id, userID, events.NoteToggled{
		NoteID: id,
		UserID: userID,
		Status: next,
	})
	return next, nil
}

// deleteNote removes a note the user owns.
func (s *NotesServer) deleteNote(ctx context.Context, userID, id int64) error {
	if err := s.store.DeleteNote(ctx, userID, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	s.recordAndPublish(ctx, events.TopicNoteDeleted, id, userID, events.NoteDeleted{
		NoteID: id,
		UserID: userID,
	})
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
