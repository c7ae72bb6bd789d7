package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/render"
)

const (
	formatTable = "table"
	formatHTML  = "html"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func validFormat(f string) error {
	switch f {
	case formatTable, formatHTML, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, html, json or yaml)", f)
}

// noteOutput is the machine-readable shape of a note.
type noteOutput struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Status    string    `json:"status" yaml:"status"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func toOutput(notes []*model.Note) []noteOutput {
	out := make([]noteOutput, len(notes))
	for i, n := range notes {
		out[i] = noteOutput{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Status:    string(n.Status),
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

func writeRendered(w io.Writer, v render.View, format string) error {
	if format == formatHTML {
		return render.WriteHTML(w, v)
	}
	return render.WriteTable(w, v)
}

func writeNotes(w io.Writer, notes []*model.Note, format string) error {
	out := toOutput(notes)
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}
	return validFormat(format)
}
