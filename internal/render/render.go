// Package render projects a notes set and a filter into a list view. It is
// pure: the same input always yields the same view, and the notes passed in
// are never modified.
package render

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"

	"github.com/alfredjeanlab/notes/internal/model"
)

// ActionKind names a per-card action. The view only describes actions;
// callers route them to the controller.
type ActionKind string

const (
	ActionToggle ActionKind = "toggle"
	ActionEdit   ActionKind = "edit"
	ActionDelete ActionKind = "delete"
)

// DeleteConfirmation is the prompt shown before a delete is dispatched.
const DeleteConfirmation = "Are you sure you want to delete this task?"

// Badge labels.
const (
	BadgeCompleted = "Completed"
	BadgePending   = "Pending"
)

// Action is a structured request emitted by a card.
type Action struct {
	Kind   ActionKind `json:"kind"`
	NoteID int64      `json:"note_id"`
	Label  string     `json:"label"`
	// Confirm, when set, is a question the user must accept before the
	// action is dispatched.
	Confirm string `json:"confirm,omitempty"`
}

// NeedsConfirmation reports whether the action requires an explicit
// confirmation step.
func (a Action) NeedsConfirmation() bool {
	return a.Confirm != ""
}

// Card is the presentation of one note. Title and Content are escaped.
type Card struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Status    model.Status `json:"status"`
	Completed bool         `json:"completed"`
	Badge     string       `json:"badge"`
	Created   string       `json:"created"`
	Actions   []Action     `json:"actions"`
}

// Action returns the card's action of the given kind.
func (c Card) Action(kind ActionKind) (Action, bool) {
	for _, a := range c.Actions {
		if a.Kind == kind {
			return a, true
		}
	}
	return Action{}, false
}

// View is the rendered list. When Empty is true Cards has no entries and the
// empty-state indicator is shown.
type View struct {
	Filter model.Filter `json:"filter"`
	Cards  []Card       `json:"cards"`
	Empty  bool         `json:"empty"`
}

// IDs returns the note ids of the rendered cards in order.
func (v View) IDs() []int64 {
	ids := make([]int64, len(v.Cards))
	for i, c := range v.Cards {
		ids[i] = c.ID
	}
	return ids
}

// Options controls locale-dependent presentation.
type Options struct {
	// Translator formats creation dates. Defaults to Indonesian (id).
	Translator locales.Translator
	// Location is the zone dates are shown in. Defaults to time.Local.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.Translator == nil {
		o.Translator = id.New()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Translator returns the date translator for a locale name. Only "id" and
// "en" are bundled.
func Translator(locale string) (locales.Translator, error) {
	switch strings.ToLower(locale) {
	case "", "id":
		return id.New(), nil
	case "en":
		return en.New(), nil
	}
	return nil, fmt.Errorf("unsupported locale %q (want id or en)", locale)
}

// Render builds the view for notes under filter. An invalid filter is
// treated as the default.
func Render(notes []*model.Note, filter model.Filter, opts Options) View {
	if !filter.IsValid() {
		filter = model.DefaultFilter
	}
	opts = opts.withDefaults()

	visible := filter.Apply(notes)
	v := View{Filter: filter, Cards: make([]Card, 0, len(visible))}
	for _, n := range visible {
		v.Cards = append(v.Cards, renderCard(n, opts))
	}
	v.Empty = len(v.Cards) == 0
	return v
}

func renderCard(n *model.Note, opts Options) Card {
	completed := n.IsCompleted()
	badge, toggle := BadgePending, "Complete"
	if completed {
		badge, toggle = BadgeCompleted, "Reopen"
	}
	return Card{
		ID:        n.ID,
		Title:     Escape(n.Title),
		Content:   Escape(n.Content),
		Status:    n.Status,
		Completed: completed,
		Badge:     badge,
		Created:   FormatDate(n.CreatedAt, opts),
		Actions: []Action{
			{Kind: ActionToggle, NoteID: n.ID, Label: toggle},
			{Kind: ActionEdit, NoteID: n.ID, Label: "Edit"},
			{Kind: ActionDelete, NoteID: n.ID, Label: "Delete", Confirm: DeleteConfirmation},
		},
	}
}

// FormatDate renders t as a long date followed by a short time in the
// configured locale, e.g. "18 Oktober 2026 14.30" for id.
func FormatDate(t time.Time, opts Options) string {
	if t.IsZero() {
		return ""
	}
	opts = opts.withDefaults()
	t = t.In(opts.Location)
	return opts.Translator.FmtDateLong(t) + " " + opts.Translator.FmtTimeShort(t)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape replaces & < > " ' with entity forms so text is never read as
// markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape decodes text produced by Escape.
func Unescape(s string) string {
	return html.UnescapeString(s)
}
