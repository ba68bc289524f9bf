package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"goz-scoring/internal/config"
	"goz-scoring/internal/storage/migrations"
	"goz-scoring/internal/storage/postgres"
)

// ErrNoDatabases is returned by migrate when no DSN is configured.
var ErrNoDatabases = errors.New("no database configured")

// MigrateOptions holds flags for the migrate command.
type MigrateOptions struct {
	*RootOptions
	PostgresDSN   string
	ClickhouseDSN string
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded schema migrations",
		Long: `Apply the embedded team_scores schema to the configured PostgreSQL and
ClickHouse databases. Migrations are idempotent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PostgresDSN, "postgres-dsn", "", "PostgreSQL DSN (overrides storage.postgres_dsn)")
	cmd.Flags().StringVar(&opts.ClickhouseDSN, "clickhouse-dsn", "", "ClickHouse DSN (overrides storage.clickhouse_dsn)")

	return cmd
}

func runMigrate(cmd *cobra.Command, opts *MigrateOptions) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("postgres-dsn") {
		cfg.Storage.PostgresDSN = opts.PostgresDSN
	}
	if cmd.Flags().Changed("clickhouse-dsn") {
		cfg.Storage.ClickhouseDSN = opts.ClickhouseDSN
	}

	if cfg.Storage.PostgresDSN == "" && cfg.Storage.ClickhouseDSN == "" {
		return ErrNoDatabases
	}

	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr())

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := postgres.NewPool(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		logger.Printf("[migrate] postgres migrations applied")
	}

	if dsn := cfg.Storage.ClickhouseDSN; dsn != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
		if err != nil {
			return err
		}
		conn.Close()
		logger.Printf("[migrate] clickhouse migrations applied")
	}

	return nil
}
