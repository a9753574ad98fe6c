// Package commands implements the userctl subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/core"
	"github.com/JonMunkholm/userdesk/internal/logging"
	"github.com/JonMunkholm/userdesk/internal/storage"
)

// errUnsaved is returned when a mutation succeeded in memory but the store
// rejected the save.
var errUnsaved = errors.New("change was not saved")

// globalOptions are the persistent flags shared by all subcommands.
type globalOptions struct {
	envFile  string
	driver   string
	dir      string
	logLevel string
}

// app is the state built for a subcommand run.
type app struct {
	cfg     *config.Config
	opened  *storage.Opened
	service *core.Service
}

func (a *app) close() {
	if a.opened != nil {
		a.opened.Close()
	}
}

// NewRootCommand builds the userctl command tree. Command output goes to out;
// logs go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "userctl",
		Short: "Manage user records",
		Long: `userctl lists, edits and exports the user records served by the
userdesk server. It reads the same environment variables (and .env file).

Examples:
  # Second page of users whose email contains "example", sorted by name
  userctl list --by email -q example --sort name --dir asc --page 2

  # Add a user
  userctl add --name "Ada Lovelace" --email ada@example.com

  # Apply database migrations
  userctl migrate up`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Environment file to load if present")
	root.PersistentFlags().StringVar(&opts.driver, "driver", "", "Storage driver override: file, postgres or memory")
	root.PersistentFlags().StringVar(&opts.dir, "dir", "", "Storage directory override for the file driver")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override: debug, info, warn, error")

	root.AddCommand(
		newListCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newValidateCommand(),
		newExportCommand(opts),
		newMigrateCommand(opts),
	)

	return root
}

// loadConfig reads the environment, applies flag overrides and configures
// logging to the command's error stream.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	if opts.envFile != "" {
		// Unlike the server, existing variables win over the file.
		_ = godotenv.Load(opts.envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.driver != "" {
		cfg.Storage.Driver = opts.driver
	}
	if opts.dir != "" {
		cfg.Storage.Dir = opts.dir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// openApp loads configuration, opens storage and builds the service.
func openApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	ctx := commandContext(cmd)
	opened, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc := core.NewService(ctx, opened.Store, core.Options{
		AuditCapacity: cfg.Audit.Capacity,
		SaveTimeout:   cfg.Storage.SaveTimeout,
	})
	return &app{cfg: cfg, opened: opened, service: svc}, nil
}

// ensureSaved fails when the last mutation could not be persisted.
func (a *app) ensureSaved(ctx context.Context) error {
	if !a.service.Dirty() {
		return nil
	}
	if err := a.service.Flush(ctx); err != nil {
		slog.Error("save failed", "error", err)
		return fmt.Errorf("%w: %v", errUnsaved, err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
