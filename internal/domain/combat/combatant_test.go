package combat_test

import (
	"testing"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/stretchr/testify/assert"
)

func newCombatant() *combat.Combatant {
	return &combat.Combatant{
		ID:        "c1",
		Name:      "Naruto",
		Power:     20,
		Defense:   10,
		Accuracy:  100,
		Health:    80,
		MaxHealth: 100,
		Chakra:    5,
		MaxChakra: 10,
	}
}

func TestCombatant_Effective(t *testing.T) {
	c := newCombatant()
	c.ActiveEffects = []*combat.Modifier{
		{Kind: combat.ModifierBuff, Deltas: map[combat.Stat]float64{combat.StatPower: 5}, Remaining: 2},
		{Kind: combat.ModifierDebuff, Deltas: map[combat.Stat]float64{combat.StatPower: -2, combat.StatDodge: -10}, Remaining: 1},
		{Kind: combat.ModifierStatus, Status: combat.StatusStun, Remaining: 1},
	}

	eff := c.Effective()

	assert.Equal(t, 23.0, eff.Power)
	assert.Equal(t, -10.0, eff.Dodge)
	assert.Equal(t, 10.0, eff.Defense)
	assert.Equal(t, 20.0, c.Base().Power, "base stats are untouched")
	assert.True(t, c.IsIncapacitated())
	assert.False(t, c.HasStatus(combat.StatusBleed))
}

func TestCombatant_AddChakra(t *testing.T) {
	c := newCombatant()

	c.AddChakra(20)
	assert.Equal(t, 10, c.Chakra)

	c.AddChakra(-25)
	assert.Equal(t, 0, c.Chakra)
}

func TestCombatant_ClampHealth(t *testing.T) {
	c := newCombatant()

	c.Health = -15
	c.ClampHealth()
	assert.Equal(t, 0, c.Health)
	assert.False(t, c.IsAlive())

	c.Health = 140
	c.ClampHealth()
	assert.Equal(t, 100, c.Health)
}

func TestCombatant_TechniqueNames(t *testing.T) {
	c := newCombatant()
	c.Techniques = map[string]string{
		"slot2": "Rasengan",
		"slot1": "Shadow Clone",
		"slot3": "Rasengan",
		"slot4": "",
	}

	assert.Equal(t, []string{"Shadow Clone", "Rasengan"}, c.TechniqueNames())
}
