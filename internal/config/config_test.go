package config_test

import (
	"testing"
	"time"

	"github.com/KirkDiggler/shinobi-bot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"DISCORD_TOKEN": "token",
	})
	require.NoError(t, err)

	assert.Equal(t, config.StoreRedis, cfg.Store.Backend)
	assert.Equal(t, "data/catalog.yaml", cfg.Combat.CatalogPath)
	assert.Equal(t, 90*time.Second, cfg.Combat.PromptTimeout)
	assert.Equal(t, 60*time.Second, cfg.Combat.DuelPromptTimeout)
	assert.Equal(t, 10, cfg.Combat.ResourceCeiling)
	assert.Equal(t, 2, cfg.Combat.NPCRegen)
	assert.Equal(t, 50, cfg.Combat.MaxRounds)
	assert.Equal(t, 5, cfg.Combat.DrainAmount)
	assert.Equal(t, map[string]int{
		"academy student": 1,
		"genin":           2,
		"chunin":          2,
		"jounin":          2,
	}, cfg.Combat.RankRegen)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"DISCORD_TOKEN":        "token",
		"PLAYER_STORE":         "postgres",
		"DATABASE_URL":         "postgres://u:p@localhost:5432/shinobi",
		"HUMAN_PROMPT_TIMEOUT": "2m",
		"RANK_REGEN":           "genin:3",
	})
	require.NoError(t, err)

	assert.Equal(t, config.StorePostgres, cfg.Store.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Combat.PromptTimeout)
	assert.Equal(t, map[string]int{"genin": 3}, cfg.Combat.RankRegen)
}

func TestLoadFrom_Errors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{
			name:    "missing token",
			environ: map[string]string{},
		},
		{
			name:    "postgres without url",
			environ: map[string]string{"DISCORD_TOKEN": "t", "PLAYER_STORE": "postgres"},
		},
		{
			name:    "unknown store",
			environ: map[string]string{"DISCORD_TOKEN": "t", "PLAYER_STORE": "mongo"},
		},
		{
			name:    "zero ceiling",
			environ: map[string]string{"DISCORD_TOKEN": "t", "RESOURCE_CEILING": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFrom(tt.environ)
			assert.Error(t, err)
		})
	}
}
