// Package config loads scoring run configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"goz-scoring/internal/address"
	"goz-scoring/internal/domain"
	"goz-scoring/internal/reporting"
	"goz-scoring/internal/scoring"
)

// DefaultConfigName is the config file looked up in the working directory
// when no path is given.
const DefaultConfigName = "goz_scoring"

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full run configuration, one value per process.
type Config struct {
	HubID   []string      `mapstructure:"hub_id"`
	Teams   []TeamConfig  `mapstructure:"teams"`
	Scoring ScoringConfig `mapstructure:"scoring"`
	Output  OutputConfig  `mapstructure:"output"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// TeamConfig is one roster entry: a relayer address and its team name.
type TeamConfig struct {
	Address string `mapstructure:"address"`
	Name    string `mapstructure:"name"`
}

// ScoringConfig selects address prefix and attribution policies.
type ScoringConfig struct {
	HubPrefix   string `mapstructure:"hub_prefix"`
	SenderIndex string `mapstructure:"sender_index"`
	HubMatch    string `mapstructure:"hub_match"`
}

// OutputConfig controls the report format and destination.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"` // "" or "-" writes to stdout
}

// StorageConfig holds optional result store DSNs; empty disables a backend.
type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load reads configuration from configPath, or from goz_scoring.toml in the
// working directory when configPath is empty. GOZ_* environment variables
// override file values (GOZ_OUTPUT_FORMAT for output.format).
// Unknown keys are rejected.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("hub_id", []string{})
	v.SetDefault("scoring.hub_prefix", address.DefaultHubPrefix)
	v.SetDefault("scoring.sender_index", string(scoring.DefaultSenderIndex))
	v.SetDefault("scoring.hub_match", string(scoring.HubMatchAny))
	v.SetDefault("output.format", string(reporting.FormatText))
	v.SetDefault("output.path", "results.txt")
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("storage.clickhouse_dsn", "")
	v.SetDefault("metrics.textfile", "")

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	// Environment variables override
	v.SetEnvPrefix("GOZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; Validate reports what is missing
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks required fields and enum values.
func (c *Config) Validate() error {
	if len(c.HubID) == 0 {
		return fmt.Errorf("%w: hub_id must list at least one network", ErrInvalidConfig)
	}
	for i, id := range c.HubID {
		if id == "" {
			return fmt.Errorf("%w: hub_id[%d] is empty", ErrInvalidConfig, i)
		}
	}

	for i, t := range c.Teams {
		if t.Address == "" {
			return fmt.Errorf("%w: teams[%d].address is empty", ErrInvalidConfig, i)
		}
		if t.Name == "" {
			return fmt.Errorf("%w: teams[%d].name is empty", ErrInvalidConfig, i)
		}
	}

	if c.Scoring.HubPrefix == "" {
		return fmt.Errorf("%w: scoring.hub_prefix is empty", ErrInvalidConfig)
	}
	if !scoring.SenderIndexPolicy(c.Scoring.SenderIndex).IsValid() {
		return fmt.Errorf("%w: unknown scoring.sender_index %q", ErrInvalidConfig, c.Scoring.SenderIndex)
	}
	if !scoring.HubMatch(c.Scoring.HubMatch).IsValid() {
		return fmt.Errorf("%w: unknown scoring.hub_match %q", ErrInvalidConfig, c.Scoring.HubMatch)
	}
	if !reporting.Format(c.Output.Format).IsValid() {
		return fmt.Errorf("%w: unknown output.format %q", ErrInvalidConfig, c.Output.Format)
	}

	return nil
}

// DomainTeams converts the configured roster entries.
func (c *Config) DomainTeams() []domain.Team {
	teams := make([]domain.Team, len(c.Teams))
	for i, t := range c.Teams {
		teams[i] = domain.Team{Address: t.Address, Name: t.Name}
	}
	return teams
}

// WritesToStdout reports whether the report goes to standard output.
func (o OutputConfig) WritesToStdout() bool {
	return o.Path == "" || o.Path == "-"
}
