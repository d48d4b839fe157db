// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/techsyncfriends/hub/internal/app"
	"github.com/techsyncfriends/hub/internal/config"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hubctl",
		Short:         "Operator tooling for the TechSync Friends hub",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(
		&configPath, "config", "config.yaml", "path to config file",
	)

	root.AddCommand(
		newMigrateCmd(),
		newPromoteCmd(),
		newBootstrapAdminCmd(),
		newKeygenCmd(),
		newPruneTokensCmd(),
	)

	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(app.NewLogger(cfg.Log, os.Stderr))
	return cfg, nil
}

// withApp builds the full dependency graph for commands that touch
// stored data. Migrations are never applied implicitly from here.
func withApp(
	ctx context.Context,
	fn func(ctx context.Context, hub *app.App) error,
) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Database.AutoMigrate = false

	hub, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer func() {
		if closeErr := hub.Close(); closeErr != nil {
			slog.Warn("close failed", "error", closeErr)
		}
	}()

	return fn(ctx, hub)
}
