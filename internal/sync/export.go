package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/notes/internal/model"
)

// FormatVersion is written in every export header.
const FormatVersion = "1"

// header is the first JSONL record written by an export.
type header struct {
	Version   string    `json:"version"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	NoteCount int       `json:"note_count"`
	UserCount int       `json:"user_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data *model.Note `json:"data"`
}

// Source supplies the notes to export.
type Source interface {
	ListAllNotes(ctx context.Context) ([]*model.Note, error)
}

// SourceFunc adapts a list function, such as a client's ListNotes, to Source.
type SourceFunc func(ctx context.Context) ([]*model.Note, error)

// ListAllNotes calls f(ctx).
func (f SourceFunc) ListAllNotes(ctx context.Context) ([]*model.Note, error) { return f(ctx) }

// ExportJSONL writes every note from src to w as JSONL: a header line, then
// one record per note sorted by id.
func ExportJSONL(ctx context.Context, src Source, w io.Writer) error {
	notes, err := src.ListAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	return WriteJSONL(w, notes, time.Now().UTC())
}

// WriteJSONL encodes notes as JSONL stamped with ts. The input slice is not
// reordered.
func WriteJSONL(w io.Writer, notes []*model.Note, ts time.Time) error {
	sorted := make([]*model.Note, len(notes))
	copy(sorted, notes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	users := make(map[int64]struct{})
	for _, n := range sorted {
		users[n.UserID] = struct{}{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:   FormatVersion,
		Type:      "header",
		Timestamp: ts,
		NoteCount: len(sorted),
		UserCount: len(users),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, n := range sorted {
		if err := enc.Encode(record{Type: "note", Data: n}); err != nil {
			return fmt.Errorf("encode note %d: %w", n.ID, err)
		}
	}

	return nil
}
