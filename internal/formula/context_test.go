package formula_test

import (
	"testing"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/formula"
	"github.com/stretchr/testify/assert"
)

func TestBuild_Defaults(t *testing.T) {
	user := formula.Build(combat.Stats{Health: 50}, formula.RoleUser)
	target := formula.Build(combat.Stats{Health: 50}, formula.RoleTarget)

	assert.Equal(t, formula.Fields{Power: 10, Defense: 10, Health: 50, Chakra: 10, Accuracy: 100, Dodge: 0}, user)
	assert.Equal(t, 1.0, target.Defense)
}

func TestBuild_KeepsValues(t *testing.T) {
	in := combat.Stats{Power: 33, Defense: 7, Chakra: 3, Accuracy: 80, Dodge: 15, MaxHealth: 120}

	f := formula.Build(in, formula.RoleTarget)

	assert.Equal(t, 33.0, f.Power)
	assert.Equal(t, 7.0, f.Defense)
	assert.Equal(t, 3.0, f.Chakra)
	assert.Equal(t, 80.0, f.Accuracy)
	assert.Equal(t, 15.0, f.Dodge)
	assert.Equal(t, 120.0, f.MaxHealth)
	assert.Equal(t, 33.0, in.Power, "input is not mutated")
}

func TestHitChance(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		dodge    float64
		want     float64
	}{
		{name: "accuracy minus dodge", accuracy: 90, dodge: 30, want: 60},
		{name: "clamps to zero", accuracy: 10, dodge: 50, want: 0},
		{name: "clamps to hundred", accuracy: 150, dodge: 0, want: 100},
		{name: "negative dodge combines before clamping", accuracy: 90, dodge: -20, want: 100},
		{name: "accuracy over hundred combines before clamping", accuracy: 150, dodge: 60, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formula.HitChance(
				formula.Fields{Accuracy: tt.accuracy},
				formula.Fields{Dodge: tt.dodge},
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlagsFor(t *testing.T) {
	target := &combat.Combatant{ActiveEffects: []*combat.Modifier{
		{Kind: combat.ModifierStatus, Status: combat.StatusFlinch, Remaining: 1},
		{Kind: combat.ModifierStatus, Status: combat.StatusConcealment, Remaining: 2},
	}}

	flags := formula.FlagsFor(target)

	assert.True(t, flags.Incapacitated)
	assert.True(t, flags.Concealment)
	assert.Equal(t, formula.Flags{}, formula.FlagsFor(nil))
}
