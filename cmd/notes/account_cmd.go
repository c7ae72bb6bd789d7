package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/client"
	"github.com/alfredjeanlab/notes/internal/controller"
	"github.com/alfredjeanlab/notes/internal/session"
	"github.com/alfredjeanlab/notes/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login [<username>]",
	Short:   "Log in and save the session for the current remote",
	GroupID: "account",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := currentTarget()
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		username := ""
		if len(args) == 1 {
			username = args[0]
		} else if username, err = prompt(in, cmd.ErrOrStderr(), "Username: "); err != nil {
			return err
		}
		password, err := readPassword(in, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		c := client.NewHTTPClient(t.URL)
		ident, err := c.Login(cmd.Context(), &client.LoginRequest{Username: username, Password: password})
		if err != nil {
			logger.Debug("login failed", "url", t.URL, "err", err)
			return fmt.Errorf("login failed: %s", serverMessage(err))
		}
		if err := saveSession(t, c.SessionToken()); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in as %s\n", ui.RenderLevel("success", "✓"), ui.RenderTitle(ident.DisplayName()))
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:     "register <username>",
	Short:   "Create an account on the current remote",
	GroupID: "account",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		fullName, _ := cmd.Flags().GetString("full-name")

		t, err := currentTarget()
		if err != nil {
			return err
		}
		password, err := readPassword(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		c := client.NewHTTPClient(t.URL)
		err = c.Register(cmd.Context(), &client.RegisterRequest{
			Username: args[0],
			Password: password,
			Email:    email,
			FullName: fullName,
		})
		if err != nil {
			logger.Debug("register failed", "url", t.URL, "err", err)
			return fmt.Errorf("registration failed: %s", serverMessage(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s Registration successful. Log in with: %s\n",
			ui.RenderLevel("success", "✓"), ui.RenderCommand("notes login "+args[0]))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "End the session on the current remote",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		p, err := openPage(ctx, cmd, pageOptions{skipLoad: true, dropExpired: true})
		if errors.Is(err, session.ErrAuthRequired) {
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}
		if err != nil {
			return err
		}
		defer p.close()

		if _, err := p.ctl.Dispatch(ctx, controller.Command{Kind: controller.CommandLogout}); err != nil {
			return reported(err)
		}
		if p.navigatedTo() == session.LoginPath {
			p.loggedOut = true
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		}
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the logged-in user",
	GroupID: "account",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPage(cmd.Context(), cmd, pageOptions{skipLoad: true})
		if err != nil {
			return err
		}
		defer p.close()

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) on %s\n",
			ui.RenderTitle(p.session.DisplayName()), p.session.Username(), ui.RenderMuted(p.target.URL))
		return nil
	},
}

func currentTarget() (target, error) {
	cfg, err := loadRemotesConfig()
	if err != nil {
		return target{}, fmt.Errorf("loading remotes: %w", err)
	}
	return resolveTarget(cfg, remoteName, serverURL)
}

// serverMessage returns the server's error text when there is one, so the
// user sees "Invalid username or password" rather than a wrapped chain.
func serverMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo from a terminal, or a plain line from
// piped input.
func readPassword(in *bufio.Reader, out io.Writer) (string, error) {
	if !ui.IsInteractive() {
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	fmt.Fprint(out, "Password: ")
	pw, err := ui.ReadPassword()
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return pw, nil
}

func init() {
	registerCmd.Flags().String("email", "", "email address (required)")
	registerCmd.Flags().String("full-name", "", "display name")
	_ = registerCmd.MarkFlagRequired("email")
}
