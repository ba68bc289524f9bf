package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goz-scoring/internal/domain"
)

func TestWriteRoster_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goz_scoring.toml")
	teams := []domain.Team{
		{Address: "cosmos1qqqsyqcyq5rqwzqfpg9scrgwpugpzysnrk363e", Name: "Team Alpha"},
		{Address: "cosmos1v3jkvemgd94xkmrddehhqutjwd682anhgerdcs", Name: "beta"},
	}

	require.NoError(t, WriteRoster(path, []string{"gameofzoneshub-2a"}, teams))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gameofzoneshub-2a"}, cfg.HubID)
	assert.Equal(t, teams, cfg.DomainTeams())
	assert.NoError(t, cfg.Validate())
}

func TestWriteRoster_RefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "goz_scoring.toml", `hub_id = ["hub"]`)

	err := WriteRoster(path, []string{"other"}, nil)
	assert.Error(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"hub"}, cfg.HubID)
}
