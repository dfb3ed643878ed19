package engagement

import (
	"strings"
	"time"

	"github.com/KirkDiggler/shinobi-bot/internal/config"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// Rules are the process-wide tunables every engagement shares
type Rules struct {
	ResourceCeiling   int
	NPCRegen          int
	DefaultRankRegen  int
	RankRegen         map[string]int
	PromptTimeout     time.Duration
	DuelPromptTimeout time.Duration
	MaxRounds         int
}

// DefaultRules mirrors the configuration defaults
func DefaultRules() Rules {
	return Rules{
		ResourceCeiling:   10,
		NPCRegen:          2,
		DefaultRankRegen:  2,
		RankRegen:         map[string]int{"academy student": 1, "genin": 2, "chunin": 2, "jounin": 2},
		PromptTimeout:     90 * time.Second,
		DuelPromptTimeout: 60 * time.Second,
		MaxRounds:         50,
	}
}

// RulesFromConfig lifts the combat section of the process config
func RulesFromConfig(cfg config.CombatConfig) Rules {
	return Rules{
		ResourceCeiling:   cfg.ResourceCeiling,
		NPCRegen:          cfg.NPCRegen,
		DefaultRankRegen:  cfg.DefaultRankRegen,
		RankRegen:         cfg.RankRegen,
		PromptTimeout:     cfg.PromptTimeout,
		DuelPromptTimeout: cfg.DuelPromptTimeout,
		MaxRounds:         cfg.MaxRounds,
	}
}

// regenFor returns the per-round chakra regeneration of c
func (r Rules) regenFor(c *combat.Combatant) int {
	if !c.Human {
		return r.NPCRegen
	}
	if v, ok := r.RankRegen[strings.ToLower(strings.TrimSpace(c.Rank))]; ok {
		return v
	}
	return r.DefaultRankRegen
}

// Participant is one seat in an engagement: a stored player or a catalog enemy
type Participant struct {
	PlayerID string
	Enemy    string
}

// Config describes one engagement: who fights, in what order, and how computers choose
type Config struct {
	Kind      combat.Kind
	ChannelID string
	Allies    []Participant
	Enemies   []Participant

	// Order defaults to AlliesFirst, or JoinOrder for duels and raids
	Order ResolutionOrder
	// Policy defaults to ComboAwarePolicy
	Policy ComputerPolicy

	PromptTimeout time.Duration
	MaxRounds     int
}

func (s *service) withDefaults(cfg *Config) *Config {
	out := *cfg
	if out.Kind == "" {
		out.Kind = combat.KindMission
	}
	if out.Order == nil {
		switch out.Kind {
		case combat.KindDuel, combat.KindRaid:
			out.Order = JoinOrder{}
		default:
			out.Order = AlliesFirst{}
		}
	}
	if out.Policy == nil {
		out.Policy = &ComboAwarePolicy{Roller: s.roller}
	}
	if out.PromptTimeout <= 0 {
		out.PromptTimeout = s.rules.PromptTimeout
		if out.Kind == combat.KindDuel {
			out.PromptTimeout = s.rules.DuelPromptTimeout
		}
	}
	if out.MaxRounds <= 0 {
		out.MaxRounds = s.rules.MaxRounds
	}
	return &out
}
