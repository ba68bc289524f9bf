package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"goz-scoring/internal/config"
	"goz-scoring/internal/fixtures"
	"goz-scoring/internal/reporting"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Teams     int
	Envelopes int
	Seed      int64
	HubIDs    []string
	Out       string
	ConfigOut string
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic event stream and roster",
		Long: `Generate a synthetic relay event stream and a config file with the
matching team roster. The same seed always produces the same files.

Example:
  goz-scoring seed --seed 42 --teams 10 --envelopes 10000
  goz-scoring start --config goz_scoring.toml --out - events.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Teams, "teams", 5, "number of teams")
	cmd.Flags().IntVar(&opts.Envelopes, "envelopes", 500, "number of envelopes")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().StringSliceVar(&opts.HubIDs, "hub-id", []string{fixtures.DefaultHubID}, "hub chain id (repeatable)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "events.json", "event stream path, - for stdout")
	cmd.Flags().StringVar(&opts.ConfigOut, "config-out", config.DefaultConfigName+".toml", "roster config path")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	toStdout := opts.Out == "-"
	if !toStdout {
		if err := reporting.CheckOutputPath(opts.Out); err != nil {
			return err
		}
	}
	if err := reporting.CheckOutputPath(opts.ConfigOut); err != nil {
		return err
	}

	ds, err := fixtures.Generate(fixtures.Options{
		Seed:      opts.Seed,
		Teams:     opts.Teams,
		Envelopes: opts.Envelopes,
		HubIDs:    opts.HubIDs,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := ds.WriteNDJSON(&buf); err != nil {
		return err
	}
	if toStdout {
		if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write events: %w", err)
		}
	} else if err := reporting.WriteNewFile(opts.Out, buf.Bytes()); err != nil {
		return err
	}

	if err := config.WriteRoster(opts.ConfigOut, ds.HubIDs, ds.Teams); err != nil {
		return err
	}

	newLogger(cmd.ErrOrStderr()).Printf("[seed] wrote %d envelope(s) for %d team(s), roster in %s",
		len(ds.Envelopes), len(ds.Teams), opts.ConfigOut)
	return nil
}
