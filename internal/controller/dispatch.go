package controller

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/render"
)

// CommandKind names a user action.
type CommandKind string

const (
	CommandAdd      CommandKind = "add"
	CommandOpenEdit CommandKind = "open-edit"
	CommandSaveEdit CommandKind = "save-edit"
	CommandToggle   CommandKind = "toggle"
	CommandDelete   CommandKind = "delete"
	CommandFilter   CommandKind = "filter"
	CommandLogout   CommandKind = "logout"
)

// Command is one structured user action. Only the fields its kind needs are
// read.
type Command struct {
	Kind    CommandKind
	NoteID  int64
	Title   string
	Content string
	Filter  model.Filter
	// Confirm is asked through the Confirmer before dispatch.
	Confirm string
}

// CommandFor maps a card action to the command it requests.
func CommandFor(a render.Action) (Command, error) {
	cmd := Command{NoteID: a.NoteID, Confirm: a.Confirm}
	switch a.Kind {
	case render.ActionToggle:
		cmd.Kind = CommandToggle
	case render.ActionEdit:
		cmd.Kind = CommandOpenEdit
	case render.ActionDelete:
		cmd.Kind = CommandDelete
	default:
		return Command{}, fmt.Errorf("unknown action %q", a.Kind)
	}
	return cmd, nil
}

// Result carries what a command produced beyond its notifications.
type Result struct {
	// Note is set by CommandOpenEdit.
	Note *model.Note
}

// Dispatch routes a command to the matching controller method. A command
// with Confirm set runs only if the confirmer accepts it; otherwise it
// returns ErrCancelled without side effects.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Confirm != "" {
		if c.confirmer == nil || !c.confirmer.Confirm(cmd.Confirm) {
			c.logger.Debug("command cancelled", "kind", cmd.Kind, "id", cmd.NoteID)
			return Result{}, ErrCancelled
		}
	}

	switch cmd.Kind {
	case CommandAdd:
		return Result{}, c.Create(ctx, cmd.Title, cmd.Content)
	case CommandOpenEdit:
		n, err := c.OpenEdit(ctx, cmd.NoteID)
		return Result{Note: n}, err
	case CommandSaveEdit:
		return Result{}, c.Update(ctx, cmd.NoteID, cmd.Title, cmd.Content)
	case CommandToggle:
		return Result{}, c.Toggle(ctx, cmd.NoteID)
	case CommandDelete:
		return Result{}, c.Delete(ctx, cmd.NoteID)
	case CommandFilter:
		return Result{}, c.SetFilter(cmd.Filter)
	case CommandLogout:
		return Result{}, c.Logout(ctx)
	}
	return Result{}, fmt.Errorf("unknown command %q", cmd.Kind)
}
