// AngelaMos | 2026
// commands.go

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/techsyncfriends/hub/internal/app"
	"github.com/techsyncfriends/hub/internal/auth"
	"github.com/techsyncfriends/hub/internal/core"
)

const minPasswordLength = 6

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := core.RunMigrations(cfg.Database.URL); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				version, dirty, err := core.MigrationVersion(cfg.Database.URL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func newPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Grant admin rights to an existing member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, hub *app.App) error {
				return promote(ctx, cmd.OutOrStdout(), hub, args[0])
			})
		},
	}
}

func promote(ctx context.Context, out io.Writer, hub *app.App, email string) error {
	p, err := hub.Profiles.PromoteByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("no member with email %q", email)
		}
		return err
	}

	if err := hub.Gate.Forget(ctx, p.ID); err != nil {
		fmt.Fprintf(out, "warning: cached session state not cleared: %v\n", err)
	}

	fmt.Fprintf(out, "%s (%s) is now an admin\n", p.Username, p.ID)
	return nil
}

func newBootstrapAdminCmd() *cobra.Command {
	var email, username string

	cmd := &cobra.Command{
		Use:   "bootstrap-admin",
		Short: "Create the first admin account",
		Long: "Creates a member and promotes it in one step. The password is " +
			"prompted for on a terminal or read from the first line of stdin.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(ctx context.Context, hub *app.App) error {
				_, _, err := hub.Auth.CreateMember(ctx, email, password, username)
				if errors.Is(err, auth.ErrEmailExists) {
					fmt.Fprintln(cmd.OutOrStdout(), "member exists, promoting")
				} else if err != nil {
					return err
				}
				return promote(ctx, cmd.OutOrStdout(), hub, email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&username, "username", "admin", "admin display name")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag is defined above

	return cmd
}

func newKeygenCmd() *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an ES256 key pair for access tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private", "keys/private.pem", "private key output path")
	cmd.Flags().StringVar(&publicPath, "public", "keys/public.pem", "public key output path")

	return cmd
}

func newPruneTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune-tokens",
		Short: "Delete refresh tokens that expired more than a day ago",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, hub *app.App) error {
				n, err := hub.Auth.PruneExpiredTokens(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d refresh tokens\n", n)
				return nil
			})
		},
	}
}

func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	var password string

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		first, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}

		fmt.Fprint(prompt, "Confirm password: ")
		second, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}

		if string(first) != string(second) {
			return "", errors.New("passwords do not match")
		}
		password = string(first)
	} else {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	return password, nil
}
