package controller

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/notify"
	"github.com/alfredjeanlab/notes/internal/render"
	"github.com/alfredjeanlab/notes/internal/session"
)

var errBoom = errors.New("HTTP 500: boom")

// fakeGateway serves a fixed in-memory list and records every call.
type fakeGateway struct {
	notes []*model.Note

	listErr   error
	listFails int // remaining ListNotes calls to fail; -1 for always
	createErr error
	updateErr error
	toggleErr error
	deleteErr error
	logoutErr error

	calls     []string
	lastDraft model.Draft
	lastID    int64
}

func (g *fakeGateway) count(name string) int {
	n := 0
	for _, c := range g.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (g *fakeGateway) ListNotes(context.Context) ([]*model.Note, error) {
	g.calls = append(g.calls, "list")
	if g.listFails != 0 {
		if g.listFails > 0 {
			g.listFails--
		}
		return nil, g.listErr
	}
	out := make([]*model.Note, len(g.notes))
	copy(out, g.notes)
	return out, nil
}

func (g *fakeGateway) CreateNote(_ context.Context, d model.Draft) (*model.Note, error) {
	g.calls = append(g.calls, "create")
	g.lastDraft = d
	if g.createErr != nil {
		return nil, g.createErr
	}
	n := &model.Note{ID: int64(len(g.notes) + 1), Title: d.Title, Content: d.Content, Status: model.StatusPending}
	g.notes = append([]*model.Note{n}, g.notes...)
	return n, nil
}

func (g *fakeGateway) UpdateNote(_ context.Context, id int64, d model.Draft) (*model.Note, error) {
	g.calls = append(g.calls, "update")
	g.lastID, g.lastDraft = id, d
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	n := model.FindNote(g.notes, id)
	n.Title, n.Content = d.Title, d.Content
	return n, nil
}

func (g *fakeGateway) ToggleStatus(_ context.Context, id int64) (model.Status, error) {
	g.calls = append(g.calls, "toggle")
	g.lastID = id
	if g.toggleErr != nil {
		return "", g.toggleErr
	}
	n := model.FindNote(g.notes, id)
	n.Status = n.Status.Toggled()
	return n.Status, nil
}

func (g *fakeGateway) DeleteNote(_ context.Context, id int64) error {
	g.calls = append(g.calls, "delete")
	g.lastID = id
	if g.deleteErr != nil {
		return g.deleteErr
	}
	for i, n := range g.notes {
		if n.ID == id {
			g.notes = append(g.notes[:i], g.notes[i+1:]...)
			break
		}
	}
	return nil
}

func (g *fakeGateway) Logout(context.Context) error {
	g.calls = append(g.calls, "logout")
	return g.logoutErr
}

type note struct {
	msg string
	sev notify.Severity
}

type recordingNotifier struct {
	got []note
}

func (r *recordingNotifier) Notify(msg string, sev notify.Severity) uint64 {
	r.got = append(r.got, note{msg, sev})
	return uint64(len(r.got))
}

type recordingPresenter struct {
	views []render.View
}

func (p *recordingPresenter) Present(v render.View) { p.views = append(p.views, v) }

func (p *recordingPresenter) last() render.View {
	if len(p.views) == 0 {
		return render.View{}
	}
	return p.views[len(p.views)-1]
}

func seedNotes() []*model.Note {
	return []*model.Note{
		{ID: 1, Title: "one", Content: "first", Status: model.StatusPending, CreatedAt: time.Unix(100, 0)},
		{ID: 2, Title: "two", Content: "second", Status: model.StatusCompleted, CreatedAt: time.Unix(50, 0)},
	}
}

type harness struct {
	gw   *fakeGateway
	ntf  *recordingNotifier
	pres *recordingPresenter
	nav  []string
	ctl  *Controller
}

func newHarness(t *testing.T, gw *fakeGateway, opts ...Option) *harness {
	t.Helper()
	h := &harness{gw: gw, ntf: &recordingNotifier{}, pres: &recordingPresenter{}}
	opts = append([]Option{
		WithNavigator(session.NavigatorFunc(func(p string) { h.nav = append(h.nav, p) })),
		WithRenderOptions(render.Options{Location: time.UTC}),
	}, opts...)
	h.ctl = New(gw, h.ntf, h.pres, opts...)
	return h
}

// loaded returns a harness whose controller has completed its initial load
// with call and notification history cleared.
func loaded(t *testing.T, gw *fakeGateway, opts ...Option) *harness {
	t.Helper()
	h := newHarness(t, gw, opts...)
	if err := h.ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	gw.calls = nil
	h.ntf.got = nil
	h.pres.views = nil
	return h
}

func (h *harness) wantNotifications(t *testing.T, want ...note) {
	t.Helper()
	if !reflect.DeepEqual(h.ntf.got, want) {
		t.Errorf("notifications = %v, want %v", h.ntf.got, want)
	}
}

func TestLoad(t *testing.T) {
	h := newHarness(t, &fakeGateway{notes: seedNotes()})
	if err := h.ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := h.pres.last().IDs(); !reflect.DeepEqual(got, []int64{1, 2}) {
		t.Errorf("rendered ids = %v, want [1 2]", got)
	}
	if len(h.ntf.got) != 0 {
		t.Errorf("notifications = %v, want none", h.ntf.got)
	}
}

func TestLoad_FailureLeavesListEmpty(t *testing.T) {
	h := newHarness(t, &fakeGateway{notes: seedNotes(), listErr: errBoom, listFails: -1})
	if err := h.ctl.Load(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Load() error = %v, want errBoom", err)
	}
	h.wantNotifications(t, note{MsgLoadFailed, notify.SeverityDanger})
	if !h.pres.last().Empty {
		t.Error("empty state not shown after failed load")
	}
	if len(h.nav) != 0 {
		t.Errorf("navigated to %v, want no navigation", h.nav)
	}
}

func TestSetFilter_NoNetworkCall(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})

	if err := h.ctl.SetFilter(model.FilterPending); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	if len(h.gw.calls) != 0 {
		t.Errorf("gateway calls = %v, want none", h.gw.calls)
	}
	if got := h.pres.last().IDs(); !reflect.DeepEqual(got, []int64{1}) {
		t.Errorf("rendered ids = %v, want [1]", got)
	}
	if h.ctl.Filter() != model.FilterPending {
		t.Errorf("Filter() = %q, want pending", h.ctl.Filter())
	}

	if err := h.ctl.SetFilter("bogus"); err == nil {
		t.Error("SetFilter(bogus) should fail")
	}
	if h.ctl.Filter() != model.FilterPending {
		t.Error("invalid filter changed state")
	}
}

func TestCreate(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})

	if err := h.ctl.Create(context.Background(), "  new  ", " body "); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if h.gw.lastDraft.Title != "new" || h.gw.lastDraft.Content != "body" {
		t.Errorf("draft = %+v, want trimmed", h.gw.lastDraft)
	}
	if !reflect.DeepEqual(h.gw.calls, []string{"create", "list"}) {
		t.Errorf("calls = %v, want [create list]", h.gw.calls)
	}
	h.wantNotifications(t, note{MsgCreated, notify.SeveritySuccess})
	if got := len(h.pres.last().Cards); got != 3 {
		t.Errorf("rendered %d cards, want 3", got)
	}
}

func TestCreate_ValidationMakesNoNetworkCall(t *testing.T) {
	for _, tc := range []struct {
		name, title, content string
	}{
		{"EmptyTitle", "", "body"},
		{"BlankTitle", "   ", "body"},
		{"EmptyContent", "title", ""},
		{"BlankContent", "title", "\t\n"},
		{"BothEmpty", "", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := loaded(t, &fakeGateway{notes: seedNotes()})
			before := h.ctl.Notes()

			err := h.ctl.Create(context.Background(), tc.title, tc.content)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Create() error = %v, want ErrValidation", err)
			}
			if len(h.gw.calls) != 0 {
				t.Errorf("gateway calls = %v, want none", h.gw.calls)
			}
			h.wantNotifications(t, note{MsgFillAllFields, notify.SeverityWarning})
			if !reflect.DeepEqual(h.ctl.Notes(), before) {
				t.Error("notes changed after rejected create")
			}
		})
	}
}

func TestCreate_LongTitleReachesServer(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	title := strings.Repeat("x", model.MaxTitleLength+1)

	if err := h.ctl.Create(context.Background(), title, "non-empty content"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !reflect.DeepEqual(h.gw.calls, []string{"create", "list"}) {
		t.Errorf("calls = %v, want [create list]", h.gw.calls)
	}
	if h.gw.lastDraft.Title != title {
		t.Errorf("submitted title has %d chars, want %d", len(h.gw.lastDraft.Title), len(title))
	}
	h.wantNotifications(t, note{MsgCreated, notify.SeveritySuccess})
}

func TestCreate_ValidationErrorText(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	err := h.ctl.Create(context.Background(), "", "body")
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "draft rejected: title: is required"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestUpdate_ValidationMakesNoNetworkCall(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	if err := h.ctl.Update(context.Background(), 1, "title", " "); !errors.Is(err, ErrValidation) {
		t.Fatalf("Update() error = %v, want ErrValidation", err)
	}
	if len(h.gw.calls) != 0 {
		t.Errorf("gateway calls = %v, want none", h.gw.calls)
	}
	h.wantNotifications(t, note{MsgFillAllFields, notify.SeverityWarning})
}

func TestMutations_Success(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		call string
		run  func(*Controller) error
		msg  string
	}{
		{"Update", "update", func(c *Controller) error { return c.Update(ctx, 1, "t", "c") }, MsgUpdated},
		{"Toggle", "toggle", func(c *Controller) error { return c.Toggle(ctx, 1) }, MsgToggled},
		{"Delete", "delete", func(c *Controller) error { return c.Delete(ctx, 1) }, MsgDeleted},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := loaded(t, &fakeGateway{notes: seedNotes()})
			if err := tc.run(h.ctl); err != nil {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(h.gw.calls, []string{tc.call, "list"}) {
				t.Errorf("calls = %v, want [%s list]", h.gw.calls, tc.call)
			}
			if h.gw.lastID != 1 {
				t.Errorf("id = %d, want 1", h.gw.lastID)
			}
			h.wantNotifications(t, note{tc.msg, notify.SeveritySuccess})
			if len(h.pres.views) != 1 {
				t.Errorf("presented %d times, want 1", len(h.pres.views))
			}
		})
	}
}

func TestMutations_Failure(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name  string
		setup func(*fakeGateway)
		run   func(*Controller) error
		msg   string
	}{
		{"Create", func(g *fakeGateway) { g.createErr = errBoom }, func(c *Controller) error { return c.Create(ctx, "t", "c") }, MsgCreateFailed},
		{"Update", func(g *fakeGateway) { g.updateErr = errBoom }, func(c *Controller) error { return c.Update(ctx, 1, "t", "c") }, MsgUpdateFailed},
		{"Toggle", func(g *fakeGateway) { g.toggleErr = errBoom }, func(c *Controller) error { return c.Toggle(ctx, 1) }, MsgToggleFailed},
		{"Delete", func(g *fakeGateway) { g.deleteErr = errBoom }, func(c *Controller) error { return c.Delete(ctx, 1) }, MsgDeleteFailed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := loaded(t, &fakeGateway{notes: seedNotes()})
			tc.setup(h.gw)
			before := h.ctl.View()

			if err := tc.run(h.ctl); !errors.Is(err, errBoom) {
				t.Fatalf("error = %v, want errBoom", err)
			}
			if n := h.gw.count("list"); n != 0 {
				t.Errorf("list called %d times after failure, want 0", n)
			}
			h.wantNotifications(t, note{tc.msg, notify.SeverityDanger})
			if len(h.pres.views) != 0 {
				t.Error("view re-rendered after failure")
			}
			if !reflect.DeepEqual(h.ctl.View(), before) {
				t.Error("view changed after failure")
			}
			if len(h.nav) != 0 {
				t.Errorf("navigated to %v, want no navigation", h.nav)
			}
		})
	}
}

func TestMutation_ReconcileFailureReportsLoadFailure(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	h.gw.listErr, h.gw.listFails = errBoom, 1
	before := h.ctl.Notes()

	if err := h.ctl.Toggle(context.Background(), 1); !errors.Is(err, errBoom) {
		t.Fatalf("Toggle() error = %v, want errBoom", err)
	}
	h.wantNotifications(t, note{MsgLoadFailed, notify.SeverityDanger})
	if !reflect.DeepEqual(h.ctl.Notes(), before) {
		t.Error("notes changed after failed reconcile")
	}
}

func TestReconcileReplacesNotesWithServerState(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	if err := h.ctl.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if got := model.FindNote(h.ctl.Notes(), 1).Status; got != model.StatusCompleted {
		t.Errorf("status = %q, want completed", got)
	}

	if err := h.ctl.SetFilter(model.FilterPending); err != nil {
		t.Fatal(err)
	}
	if !h.pres.last().Empty {
		t.Error("pending view should be empty once both notes are completed")
	}
}

func TestOpenEdit(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	n, err := h.ctl.OpenEdit(context.Background(), 2)
	if err != nil {
		t.Fatalf("OpenEdit() error = %v", err)
	}
	if n.Title != "two" {
		t.Errorf("title = %q, want two", n.Title)
	}
	if len(h.ntf.got) != 0 || len(h.pres.views) != 0 {
		t.Error("OpenEdit should neither notify nor re-render on success")
	}
}

func TestOpenEdit_NotFound(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	_, err := h.ctl.OpenEdit(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("OpenEdit() error = %v, want ErrNotFound", err)
	}
	h.wantNotifications(t, note{MsgLoadNoteFailed, notify.SeverityDanger})
}

func TestOpenEdit_ListFailure(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()})
	h.gw.listErr, h.gw.listFails = errBoom, 1
	if _, err := h.ctl.OpenEdit(context.Background(), 1); !errors.Is(err, errBoom) {
		t.Fatalf("OpenEdit() error = %v, want errBoom", err)
	}
	h.wantNotifications(t, note{MsgLoadNoteFailed, notify.SeverityDanger})
}

func TestLogout(t *testing.T) {
	h := loaded(t, &fakeGateway{})
	if err := h.ctl.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if !reflect.DeepEqual(h.nav, []string{session.LoginPath}) {
		t.Errorf("navigated to %v, want [%s]", h.nav, session.LoginPath)
	}
}

func TestLogout_Failure(t *testing.T) {
	h := loaded(t, &fakeGateway{logoutErr: errBoom})
	if err := h.ctl.Logout(context.Background()); !errors.Is(err, errBoom) {
		t.Fatalf("Logout() error = %v, want errBoom", err)
	}
	if len(h.nav) != 0 {
		t.Errorf("navigated to %v after failed logout", h.nav)
	}
	h.wantNotifications(t, note{MsgLogoutFailed, notify.SeverityDanger})
}

func TestWithFilter(t *testing.T) {
	h := loaded(t, &fakeGateway{notes: seedNotes()}, WithFilter(model.FilterCompleted))
	if got := h.ctl.View().IDs(); !reflect.DeepEqual(got, []int64{2}) {
		t.Errorf("ids = %v, want [2]", got)
	}
}
