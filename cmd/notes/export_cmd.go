package main

import (
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/controller"
	"github.com/alfredjeanlab/notes/internal/notify"
	notesync "github.com/alfredjeanlab/notes/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Write your tasks to stdout as JSONL",
	GroupID: "notes",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := openPage(ctx, cmd, pageOptions{skipLoad: true})
		if err != nil {
			return err
		}
		defer p.close()

		if err := notesync.ExportJSONL(ctx, notesync.SourceFunc(p.client.ListNotes), cmd.OutOrStdout()); err != nil {
			logger.Error("export failed", "err", err)
			p.surface.Notify(controller.MsgLoadFailed, notify.SeverityDanger)
			return reported(err)
		}
		return nil
	},
}
