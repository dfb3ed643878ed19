package testutils

import (
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
)

// NewTestPlayer creates a genin player record with one technique equipped
func NewTestPlayer(id, name string) *players.Player {
	return &players.Player{
		ID:         id,
		Name:       name,
		Rank:       "genin",
		Level:      1,
		Power:      20,
		Defense:    10,
		Accuracy:   100,
		Health:     90,
		MaxHealth:  100,
		Chakra:     6,
		MaxChakra:  10,
		Techniques: map[string]string{"slot1": "Mystical Palm"},
	}
}

// NewTestCombatant creates a full-health combatant with no modifiers
func NewTestCombatant(id, name string, side combat.Side, human bool) *combat.Combatant {
	return &combat.Combatant{
		ID:         id,
		Name:       name,
		Side:       side,
		Human:      human,
		Power:      50,
		Defense:    20,
		Accuracy:   100,
		Health:     100,
		MaxHealth:  100,
		Chakra:     10,
		MaxChakra:  10,
		Techniques: map[string]string{},
	}
}
