package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Player store backends
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Store   StoreConfig
	Combat  CombatConfig
	Log     LogConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN,required"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// StoreConfig selects and configures the player record store
type StoreConfig struct {
	Backend     string `env:"PLAYER_STORE" envDefault:"redis"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// CombatConfig holds the tunable rules of the engine
type CombatConfig struct {
	CatalogPath       string         `env:"CATALOG_PATH" envDefault:"data/catalog.yaml"`
	PromptTimeout     time.Duration  `env:"HUMAN_PROMPT_TIMEOUT" envDefault:"90s"`
	DuelPromptTimeout time.Duration  `env:"DUEL_PROMPT_TIMEOUT" envDefault:"60s"`
	ResourceCeiling   int            `env:"RESOURCE_CEILING" envDefault:"10"`
	NPCRegen          int            `env:"NPC_REGEN" envDefault:"2"`
	DefaultRankRegen  int            `env:"DEFAULT_RANK_REGEN" envDefault:"2"`
	RankRegen         map[string]int `env:"RANK_REGEN" envDefault:"academy student:1,genin:2,chunin:2,jounin:2" envSeparator:"," envKeyValSeparator:":"`
	MaxRounds         int            `env:"MAX_ROUNDS" envDefault:"50"`
	DrainAmount       int            `env:"DRAIN_AMOUNT" envDefault:"5"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom loads configuration from the given variables instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case StoreRedis, StoreMemory:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when PLAYER_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown PLAYER_STORE %q", c.Store.Backend)
	}

	if c.Combat.ResourceCeiling <= 0 {
		return fmt.Errorf("RESOURCE_CEILING must be positive, got %d", c.Combat.ResourceCeiling)
	}
	if c.Combat.PromptTimeout <= 0 || c.Combat.DuelPromptTimeout <= 0 {
		return fmt.Errorf("prompt timeouts must be positive")
	}

	return nil
}
