package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/client"
	"github.com/alfredjeanlab/notes/internal/controller"
	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/notify"
	"github.com/alfredjeanlab/notes/internal/render"
	"github.com/alfredjeanlab/notes/internal/session"
)

// page is one page session: the identity is resolved once, the notes are
// loaded once, then a single action runs. The controller's renders and
// notifications are collected here and written when the command ends.
type page struct {
	target  target
	client  *client.HTTPClient
	surface *notify.Surface
	session *session.Session
	ctl     *controller.Controller

	mu        sync.Mutex
	view      render.View
	rendered  bool
	navigated string
	loggedOut bool
}

type pageOptions struct {
	confirmer   controller.Confirmer
	filter      model.Filter
	render      render.Options
	skipLoad    bool
	// dropExpired clears a saved session the server no longer accepts and
	// returns ErrAuthRequired without asking the user to log in.
	dropExpired bool
}

// openPage runs the session gate and the initial load. On success the
// caller must close the page. When the gate fails the user is told to log
// in and errReported is returned.
func openPage(ctx context.Context, cmd *cobra.Command, opts pageOptions) (*page, error) {
	cfg, err := loadRemotesConfig()
	if err != nil {
		return nil, fmt.Errorf("loading remotes: %w", err)
	}
	t, err := resolveTarget(cfg, remoteName, serverURL)
	if err != nil {
		return nil, err
	}

	p := &page{
		target: t,
		client: client.NewHTTPClient(t.URL, client.WithSessionToken(t.Session)),
		surface: notify.New(
			notify.WithSink(notify.NewWriterSink(cmd.ErrOrStderr())),
			notify.WithSink(notify.NewLogSink(logger)),
		),
	}

	gate := session.NewGate(p.client, session.NavigatorFunc(p.navigate), logger)
	sess, err := gate.Resolve(ctx)
	if err != nil {
		p.surface.Close()
		if errors.Is(err, session.ErrAuthRequired) && opts.dropExpired {
			if t.Session != "" {
				if err := saveSession(t, ""); err != nil {
					return nil, fmt.Errorf("clearing saved session: %w", err)
				}
			}
			return nil, err
		}
		if errors.Is(err, session.ErrAuthRequired) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Not logged in to %s. Please log in: notes login\n", t.URL)
			return nil, reported(err)
		}
		return nil, err
	}
	p.session = sess

	ctlOpts := []controller.Option{
		controller.WithNavigator(session.NavigatorFunc(p.navigate)),
		controller.WithSession(sess),
		controller.WithLogger(logger),
		controller.WithRenderOptions(opts.render),
	}
	if opts.confirmer != nil {
		ctlOpts = append(ctlOpts, controller.WithConfirmer(opts.confirmer))
	}
	if opts.filter != "" {
		ctlOpts = append(ctlOpts, controller.WithFilter(opts.filter))
	}
	p.ctl = controller.New(p.client, p.surface, controller.PresenterFunc(p.present), ctlOpts...)

	if !opts.skipLoad {
		if err := p.ctl.Load(ctx); err != nil {
			p.close()
			return nil, reported(err)
		}
	}
	return p, nil
}

func (p *page) present(v render.View) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.view = v
	p.rendered = true
}

func (p *page) navigate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = path
}

// navigatedTo returns the last navigation target, or "".
func (p *page) navigatedTo() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.navigated
}

// lastView returns the most recent render.
func (p *page) lastView() (render.View, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view, p.rendered
}

// close stops pending notifications and saves the session cookie if the
// server replaced or cleared it.
func (p *page) close() {
	p.surface.Close()
	token := p.client.SessionToken()
	if p.loggedOut {
		token = ""
	}
	if token != p.target.Session {
		if err := saveSession(p.target, token); err != nil {
			logger.Warn("failed to save session", "remote", p.target.Name, "err", err)
		}
	}
}

// writeView prints the last rendered view in the given format.
func (p *page) writeView(w io.Writer, format string) error {
	v, ok := p.lastView()
	if !ok {
		return nil
	}
	if format == formatTable || format == formatHTML {
		return writeRendered(w, v, format)
	}
	return writeNotes(w, p.ctl.Filter().Apply(p.ctl.Notes()), format)
}

// reported wraps err so main exits non-zero without printing it again.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errReported, err)
}
