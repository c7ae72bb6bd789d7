// Package controller owns what the user currently sees: the selected filter
// and the notes last fetched from the server. Every mutation goes to the
// server first, then the full list is re-fetched and re-rendered, then
// exactly one notification reports the outcome.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/notify"
	"github.com/alfredjeanlab/notes/internal/render"
	"github.com/alfredjeanlab/notes/internal/session"
)

var (
	// ErrValidation is returned when a draft is rejected locally.
	ErrValidation = errors.New("draft rejected")
	// ErrNotFound is returned when an edit target is not in the fetched list.
	ErrNotFound = errors.New("note not found")
	// ErrCancelled is returned when the user declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// Gateway is the subset of the notes client the controller drives.
type Gateway interface {
	ListNotes(ctx context.Context) ([]*model.Note, error)
	CreateNote(ctx context.Context, draft model.Draft) (*model.Note, error)
	UpdateNote(ctx context.Context, id int64, draft model.Draft) (*model.Note, error)
	ToggleStatus(ctx context.Context, id int64) (model.Status, error)
	DeleteNote(ctx context.Context, id int64) error
	Logout(ctx context.Context) error
}

// Presenter draws a rendered view.
type Presenter interface {
	Present(v render.View)
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(v render.View)

// Present calls f(v).
func (f PresenterFunc) Present(v render.View) { f(v) }

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(question string) bool

// Confirm calls f(question).
func (f ConfirmerFunc) Confirm(question string) bool { return f(question) }

// Controller orchestrates gateway calls for one page session. Its state is
// guarded by a mutex; gateway calls run outside it, so overlapping
// operations are allowed and the last reconciliation wins.
type Controller struct {
	gw        Gateway
	notifier  notify.Notifier
	presenter Presenter
	confirmer Confirmer
	nav       session.Navigator
	session   *session.Session
	logger    *slog.Logger
	opts      render.Options

	mu       sync.Mutex
	filter   model.Filter
	notes    []*model.Note
	view     render.View
	rendered bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfirmer sets the confirmer used before deletes. Without one every
// confirmation is declined.
func WithConfirmer(c Confirmer) Option {
	return func(ctl *Controller) { ctl.confirmer = c }
}

// WithNavigator sets where Logout navigates.
func WithNavigator(nav session.Navigator) Option {
	return func(ctl *Controller) { ctl.nav = nav }
}

// WithSession attaches the resolved session.
func WithSession(s *session.Session) Option {
	return func(ctl *Controller) { ctl.session = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithRenderOptions sets the locale options passed to the renderer.
func WithRenderOptions(o render.Options) Option {
	return func(ctl *Controller) { ctl.opts = o }
}

// WithFilter sets the initial filter. Invalid values are ignored.
func WithFilter(f model.Filter) Option {
	return func(ctl *Controller) {
		if f.IsValid() {
			ctl.filter = f
		}
	}
}

// New returns a controller with the default filter and no notes.
func New(gw Gateway, notifier notify.Notifier, presenter Presenter, opts ...Option) *Controller {
	c := &Controller{
		gw:        gw,
		notifier:  notifier,
		presenter: presenter,
		filter:    model.DefaultFilter,
		notes:     []*model.Note{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.nav == nil {
		c.nav = session.NavigatorFunc(func(string) {})
	}
	return c
}

// Session returns the attached session, or nil.
func (c *Controller) Session() *session.Session {
	return c.session
}

// Filter returns the current filter.
func (c *Controller) Filter() model.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Notes returns the notes from the last successful reconciliation.
func (c *Controller) Notes() []*model.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*model.Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// View returns the last view handed to the presenter.
func (c *Controller) View() render.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Load performs the initial fetch. On failure it reports a danger
// notification and leaves the list empty.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.reconcile(ctx); err != nil {
		c.notifier.Notify(MsgLoadFailed, notify.SeverityDanger)
		c.mu.Lock()
		first := !c.rendered
		c.mu.Unlock()
		if first {
			c.present()
		}
		return err
	}
	return nil
}

// SetFilter changes the filter and re-renders the notes already loaded.
// It makes no network call.
func (c *Controller) SetFilter(f model.Filter) error {
	if !f.IsValid() {
		return fmt.Errorf("invalid filter %q", f)
	}
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
	c.present()
	return nil
}

// Create submits a new note.
func (c *Controller) Create(ctx context.Context, title, content string) error {
	draft, err := c.validate(title, content)
	if err != nil {
		return err
	}
	return c.mutate(ctx, "create", MsgCreated, MsgCreateFailed, func() error {
		_, err := c.gw.CreateNote(ctx, draft)
		return err
	})
}

// OpenEdit fetches the list and returns the note to edit. The view is not
// changed.
func (c *Controller) OpenEdit(ctx context.Context, id int64) (*model.Note, error) {
	notes, err := c.gw.ListNotes(ctx)
	if err != nil {
		c.logger.Error("loading note for edit", "id", id, "err", err)
		c.notifier.Notify(MsgLoadNoteFailed, notify.SeverityDanger)
		return nil, err
	}
	n := model.FindNote(notes, id)
	if n == nil {
		c.logger.Error("loading note for edit", "id", id, "err", ErrNotFound)
		c.notifier.Notify(MsgLoadNoteFailed, notify.SeverityDanger)
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return n, nil
}

// Update replaces a note's title and content.
func (c *Controller) Update(ctx context.Context, id int64, title, content string) error {
	draft, err := c.validate(title, content)
	if err != nil {
		return err
	}
	return c.mutate(ctx, "update", MsgUpdated, MsgUpdateFailed, func() error {
		_, err := c.gw.UpdateNote(ctx, id, draft)
		return err
	})
}

// Toggle flips a note between pending and completed on the server.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	return c.mutate(ctx, "toggle", MsgToggled, MsgToggleFailed, func() error {
		_, err := c.gw.ToggleStatus(ctx, id)
		return err
	})
}

// Delete removes a note. Confirmation is the caller's responsibility; see
// Dispatch.
func (c *Controller) Delete(ctx context.Context, id int64) error {
	return c.mutate(ctx, "delete", MsgDeleted, MsgDeleteFailed, func() error {
		return c.gw.DeleteNote(ctx, id)
	})
}

// Logout ends the server session and navigates to the login page.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.gw.Logout(ctx); err != nil {
		c.logger.Error("logout", "err", err)
		c.notifier.Notify(MsgLogoutFailed, notify.SeverityDanger)
		return err
	}
	c.nav.Navigate(session.LoginPath)
	return nil
}

func (c *Controller) validate(title, content string) (model.Draft, error) {
	draft := model.NewDraft(title, content)
	if err := model.ValidateDraft(draft); err != nil {
		c.logger.Debug("draft rejected", "err", err)
		c.notifier.Notify(MsgFillAllFields, notify.SeverityWarning)
		return draft, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return draft, nil
}

// mutate runs submit, then reconciles, then reports exactly once. If the
// submit fails there is no re-fetch. If the re-fetch fails its failure is
// reported in place of the success message.
func (c *Controller) mutate(ctx context.Context, op, okMsg, failMsg string, submit func() error) error {
	if err := submit(); err != nil {
		c.logger.Error(op+" failed", "err", err)
		c.notifier.Notify(failMsg, notify.SeverityDanger)
		return err
	}
	if err := c.reconcile(ctx); err != nil {
		c.notifier.Notify(MsgLoadFailed, notify.SeverityDanger)
		return err
	}
	c.notifier.Notify(okMsg, notify.SeveritySuccess)
	return nil
}

// reconcile replaces the notes with a fresh list and re-renders. On failure
// the state and view are left untouched.
func (c *Controller) reconcile(ctx context.Context) error {
	notes, err := c.gw.ListNotes(ctx)
	if err != nil {
		c.logger.Error("loading notes", "err", err)
		return err
	}
	if notes == nil {
		notes = []*model.Note{}
	}
	c.mu.Lock()
	c.notes = notes
	c.mu.Unlock()
	c.present()
	return nil
}

func (c *Controller) present() {
	c.mu.Lock()
	v := render.Render(c.notes, c.filter, c.opts)
	c.view = v
	c.rendered = true
	c.mu.Unlock()
	if c.presenter != nil {
		c.presenter.Present(v)
	}
}
