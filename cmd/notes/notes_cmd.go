package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/controller"
	"github.com/alfredjeanlab/notes/internal/model"
	"github.com/alfredjeanlab/notes/internal/render"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List your tasks",
	GroupID: "notes",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filterStr, _ := cmd.Flags().GetString("filter")
		format, _ := cmd.Flags().GetString("format")
		locale, _ := cmd.Flags().GetString("locale")

		filter, err := model.ParseFilter(filterStr)
		if err != nil {
			return err
		}
		if err := validFormat(format); err != nil {
			return err
		}
		tr, err := render.Translator(locale)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		p, err := openPage(ctx, cmd, pageOptions{render: render.Options{Translator: tr}})
		if err != nil {
			return err
		}
		defer p.close()

		if _, err := p.ctl.Dispatch(ctx, controller.Command{Kind: controller.CommandFilter, Filter: filter}); err != nil {
			return err
		}
		return p.writeView(cmd.OutOrStdout(), format)
	},
}

var addCmd = &cobra.Command{
	Use:     "add <title> <content>",
	Short:   "Add a task",
	GroupID: "notes",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, pageOptions{}, controller.Command{
			Kind:    controller.CommandAdd,
			Title:   args[0],
			Content: args[1],
		})
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Short:   "Change a task's title or content",
	GroupID: "notes",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("content") {
			return fmt.Errorf("nothing to change: pass --title and/or --content")
		}

		ctx := cmd.Context()
		p, err := openPage(ctx, cmd, pageOptions{})
		if err != nil {
			return err
		}
		defer p.close()

		// Unchanged fields keep the values currently on the server.
		res, err := p.ctl.Dispatch(ctx, controller.Command{Kind: controller.CommandOpenEdit, NoteID: id})
		if err != nil {
			return reported(err)
		}
		if !cmd.Flags().Changed("title") {
			title = res.Note.Title
		}
		if !cmd.Flags().Changed("content") {
			content = res.Note.Content
		}

		return finishMutation(ctx, cmd, p, controller.Command{
			Kind:    controller.CommandSaveEdit,
			NoteID:  id,
			Title:   title,
			Content: content,
		})
	},
}

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show a task with its full content",
	GroupID: "notes",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		locale, _ := cmd.Flags().GetString("locale")
		tr, err := render.Translator(locale)
		if err != nil {
			return err
		}
		opts := render.Options{Translator: tr}

		ctx := cmd.Context()
		p, err := openPage(ctx, cmd, pageOptions{render: opts, skipLoad: true})
		if err != nil {
			return err
		}
		defer p.close()

		res, err := p.ctl.Dispatch(ctx, controller.Command{Kind: controller.CommandOpenEdit, NoteID: id})
		if err != nil {
			return reported(err)
		}
		v := render.Render([]*model.Note{res.Note}, model.FilterAll, opts)
		return render.WriteDetail(cmd.OutOrStdout(), v.Cards[0])
	},
}

var toggleCmd = &cobra.Command{
	Use:     "toggle <id>",
	Short:   "Mark a task completed, or reopen it",
	GroupID: "notes",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		c, err := controller.CommandFor(render.Action{Kind: render.ActionToggle, NoteID: id})
		if err != nil {
			return err
		}
		return runMutation(cmd, pageOptions{}, c)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete a task",
	GroupID: "notes",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseNoteID(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		c, err := controller.CommandFor(render.Action{
			Kind:    render.ActionDelete,
			NoteID:  id,
			Confirm: render.DeleteConfirmation,
		})
		if err != nil {
			return err
		}
		confirmer := promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
		if yes {
			confirmer = controller.ConfirmerFunc(func(string) bool { return true })
		}
		return runMutation(cmd, pageOptions{confirmer: confirmer}, c)
	},
}

// runMutation opens a page, dispatches c and prints the refreshed list.
func runMutation(cmd *cobra.Command, opts pageOptions, c controller.Command) error {
	ctx := cmd.Context()
	p, err := openPage(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer p.close()
	return finishMutation(ctx, cmd, p, c)
}

func finishMutation(ctx context.Context, cmd *cobra.Command, p *page, c controller.Command) error {
	if _, err := p.ctl.Dispatch(ctx, c); err != nil {
		if errors.Is(err, controller.ErrCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled")
			return nil
		}
		return reported(err)
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return nil
	}
	return p.writeView(cmd.OutOrStdout(), formatTable)
}

// promptConfirmer asks on out and reads the answer from in. Only "y" or
// "yes" confirm.
func promptConfirmer(in io.Reader, out io.Writer) controller.Confirmer {
	return controller.ConfirmerFunc(func(question string) bool {
		fmt.Fprintf(out, "%s [y/N] ", question)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func parseNoteID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

func init() {
	listCmd.Flags().StringP("filter", "f", string(model.DefaultFilter), "show all, pending or completed tasks")
	listCmd.Flags().String("format", formatTable, "output format: table, html, json or yaml")
	listCmd.Flags().String("locale", "id", "date locale: id or en")
	showCmd.Flags().String("locale", "id", "date locale: id or en")

	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().String("content", "", "new content")

	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	for _, c := range []*cobra.Command{addCmd, editCmd, toggleCmd, deleteCmd} {
		c.Flags().BoolP("quiet", "q", false, "do not print the list afterwards")
	}
}
