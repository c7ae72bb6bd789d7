package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/ui"
)

const defaultServerURL = "http://localhost:8080"

var (
	serverURL  string
	remoteName string
	verbose    bool
	noColor    bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// errReported marks a failure the user has already been told about through
// a notification; main exits non-zero without printing it again.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:           "notes",
	Short:         "Manage your task list on a notes server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if noColor || !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", os.Getenv("NOTES_SERVER"), "notes server URL (overrides the remote's URL)")
	rootCmd.PersistentFlags().StringVar(&remoteName, "remote", "", "named remote to use instead of the active one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "notes", Title: "Notes:"},
		&cobra.Group{ID: "account", Title: "Account:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, ui.RenderLevel("danger", "Error: "+err.Error()))
		}
		os.Exit(1)
	}
}
