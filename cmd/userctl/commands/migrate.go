package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/userdesk/internal/config"
	"github.com/JonMunkholm/userdesk/internal/storage"
)

var errNotPostgres = errors.New("migrations require STORAGE_DRIVER=postgres")

func newMigrateCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPool(cmd, g, storage.Migrate)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withPool(cmd, g, storage.MigrateDown)
			},
		},
	)
	return cmd
}

// withPool connects to the configured database and runs fn against it.
func withPool(cmd *cobra.Command, g *globalOptions, fn func(*pgxpool.Pool) error) error {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return err
	}
	if !strings.EqualFold(cfg.Storage.Driver, config.DriverPostgres) {
		return errNotPostgres
	}

	pool, err := storage.OpenPool(commandContext(cmd), cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := fn(pool); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
