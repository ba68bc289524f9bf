package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"goz-scoring/internal/config"
	"goz-scoring/internal/pipeline"
	"goz-scoring/internal/storage/clickhouse"
	"goz-scoring/internal/storage/postgres"
)

// StartOptions holds flags for the start command. Set flags override the
// config file.
type StartOptions struct {
	*RootOptions
	Format        string
	Out           string
	PostgresDSN   string
	ClickhouseDSN string
	MetricsFile   string
}

// NewStartCommand creates the start command.
func NewStartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "start [files...]",
		Short: "Score relay event files",
		Long: `Score relay event files and write the per-team results.

Files are read in the order given. With no files the run still writes an
empty report. The output file must not exist yet; use --out - to write to
stdout.

Example:
  goz-scoring start events-1.json events-2.json
  goz-scoring start --format markdown --out - events.json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "output format (text|markdown|csv|json|yaml)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output path, - for stdout")
	cmd.Flags().StringVar(&opts.PostgresDSN, "postgres-dsn", "", "persist team scores to PostgreSQL")
	cmd.Flags().StringVar(&opts.ClickhouseDSN, "clickhouse-dsn", "", "persist team scores to ClickHouse")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics to path")

	return cmd
}

func runStart(cmd *cobra.Command, opts *StartOptions, files []string) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = opts.Format
	}
	if flags.Changed("out") {
		cfg.Output.Path = opts.Out
	}
	if flags.Changed("postgres-dsn") {
		cfg.Storage.PostgresDSN = opts.PostgresDSN
	}
	if flags.Changed("clickhouse-dsn") {
		cfg.Storage.ClickhouseDSN = opts.ClickhouseDSN
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.MetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr())

	var stores []pipeline.ResultStore
	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := postgres.NewPool(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		stores = append(stores, pipeline.ResultStore{Backend: "postgres", Store: postgres.NewTeamScoreStore(pool)})
	}
	if dsn := cfg.Storage.ClickhouseDSN; dsn != "" {
		conn, err := clickhouse.NewConn(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer conn.Close()
		stores = append(stores, pipeline.ResultStore{Backend: "clickhouse", Store: clickhouse.NewTeamScoreStore(conn)})
	}

	_, err = pipeline.New(pipeline.Options{
		Config:  cfg,
		Inputs:  files,
		Stores:  stores,
		Stdout:  cmd.OutOrStdout(),
		Logger:  logger,
		Verbose: opts.Verbose,
	}).Run(ctx)
	return err
}
