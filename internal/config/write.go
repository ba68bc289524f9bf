package config

import (
	"fmt"

	"github.com/spf13/viper"

	"goz-scoring/internal/domain"
)

// WriteRoster writes a minimal config (hub ids and teams) to path. The format
// follows the file extension. An existing file is never overwritten.
func WriteRoster(path string, hubIDs []string, teams []domain.Team) error {
	v := viper.New()

	entries := make([]map[string]interface{}, len(teams))
	for i, t := range teams {
		entries[i] = map[string]interface{}{
			"address": t.Address,
			"name":    t.Name,
		}
	}

	v.Set("hub_id", hubIDs)
	v.Set("teams", entries)

	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
