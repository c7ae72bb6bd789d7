package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"
	"unicode"

	"github.com/alfredjeanlab/notes/internal/ui"
)

// Card fields are escaped by Render, so the template must not escape again.
var listTemplate = template.Must(template.New("list").Parse(`<div id="notesList" data-filter="{{.Filter}}">
{{- range .Cards}}
  <div class="note-card" data-id="{{.ID}}" data-status="{{.Status}}">
    <h5 class="note-title">{{.Title}}</h5>
    <span class="badge{{if .Completed}} completed{{end}}">{{.Badge}}</span>
    <p class="note-content">{{.Content}}</p>
    <div class="note-meta">{{.Created}}</div>
    <div class="action-buttons">
{{- range .Actions}}
      <button data-action="{{.Kind}}" data-id="{{.NoteID}}"{{if .Confirm}} data-confirm="{{.Confirm}}"{{end}}>{{.Label}}</button>
{{- end}}
    </div>
  </div>
{{- end}}
</div>
<div id="emptyState"{{if not .Empty}} hidden{{end}}>No tasks found</div>
`))

// WriteHTML writes the view as an HTML fragment. Buttons carry data-action
// and data-id so a page script can dispatch them.
func WriteHTML(w io.Writer, v View) error {
	if err := listTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}

const maxTableTitle = 50

// WriteTable writes the view as an aligned terminal table.
func WriteTable(w io.Writer, v View) error {
	if v.Empty {
		_, err := fmt.Fprintln(w, ui.RenderMuted("No tasks found"))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE\tCREATED")
	for _, c := range v.Cards {
		title := terminalText(c.Title)
		if len([]rune(title)) > maxTableTitle {
			title = string([]rune(title)[:maxTableTitle-3]) + "..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			c.ID,
			ui.RenderStatus(c.Completed, c.Badge),
			title,
			ui.RenderMuted(c.Created),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}
	_, err := fmt.Fprintf(w, "\n%d tasks (%s)\n", len(v.Cards), v.Filter)
	return err
}

// WriteDetail writes one card in full, including its content.
func WriteDetail(w io.Writer, c Card) error {
	_, err := fmt.Fprintf(w, "%s %s\n%s\n%s\n",
		ui.RenderTitle(terminalText(c.Title)),
		ui.RenderStatus(c.Completed, "["+c.Badge+"]"),
		terminalText(c.Content),
		ui.RenderMuted(c.Created),
	)
	return err
}

// terminalText decodes escaped card text and drops control characters so
// note content cannot drive the terminal.
func terminalText(s string) string {
	s = Unescape(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
