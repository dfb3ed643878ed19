package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	mockdice "github.com/KirkDiggler/shinobi-bot/internal/dice/mock"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/effects"
	mockcatalog "github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog/mock"
)

type PipelineTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	catalog  *mockcatalog.MockRepository
	roller   *mockdice.ManualMockRoller
	pipeline *effects.Pipeline

	attacker *combat.Combatant
	defender *combat.Combatant
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.catalog = mockcatalog.NewMockRepository(s.ctrl)
	s.roller = mockdice.NewManualMockRoller()
	s.pipeline = effects.NewPipeline(&effects.PipelineConfig{
		Catalog: s.catalog,
		Roller:  s.roller,
	})

	s.attacker = &combat.Combatant{
		ID: "a", Name: "Naruto", Side: combat.SideAlly, Human: true,
		Power: 50, Defense: 10, Accuracy: 100,
		Health: 100, MaxHealth: 100, Chakra: 10, MaxChakra: 10,
	}
	s.defender = &combat.Combatant{
		ID: "b", Name: "Rogue Ninja", Side: combat.SideEnemy,
		Power: 30, Defense: 20, Accuracy: 100,
		Health: 100, MaxHealth: 100, Chakra: 10, MaxChakra: 10,
	}
}

func (s *PipelineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PipelineTestSuite) expectTechnique(tech *combat.Technique) {
	s.catalog.EXPECT().GetTechnique(tech.Name).Return(tech).AnyTimes()
}

func (s *PipelineTestSuite) call() *effects.Call {
	return &effects.Call{User: s.attacker, Target: s.defender}
}

func chance(p float64) *float64 { return &p }

func (s *PipelineTestSuite) TestBasicExchange() {
	s.expectTechnique(&combat.Technique{
		Name: "Strike", Cost: 2,
		Effects: []combat.Effect{{Type: combat.EffectDamage, Formula: "user.power*1 - target.defense*0.5"}},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Strike")

	s.True(out.Performed)
	s.True(out.Hit)
	s.Equal(40, out.Damage)
	s.Equal(60, s.defender.Health)
	s.Equal(8, s.attacker.Chakra)
	s.Equal("Naruto used Strike", out.Description)
}

func (s *PipelineTestSuite) TestResourceExhaustion() {
	s.attacker.Chakra = 2
	s.expectTechnique(&combat.Technique{
		Name: "Fireball Jutsu", Cost: 5,
		Effects: []combat.Effect{
			{Type: combat.EffectDamage, Formula: "user.power"},
			{Type: combat.EffectStatus, Status: combat.StatusBleed, Duration: 3},
		},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Fireball Jutsu")

	s.False(out.Hit)
	s.False(out.Performed)
	s.Zero(out.Damage)
	s.Equal(2, s.attacker.Chakra)
	s.Equal(100, s.defender.Health)
	s.Empty(s.defender.ActiveEffects)
}

func (s *PipelineTestSuite) TestUnknownTechnique() {
	s.catalog.EXPECT().GetTechnique("Rasengan").Return(nil)

	out := s.pipeline.ApplyTechnique(s.call(), "Rasengan")

	s.Equal(effects.DescriptionFailed, out.Description)
	s.False(out.Hit)
	s.False(out.Performed)
	s.Equal(10, s.attacker.Chakra)
}

func (s *PipelineTestSuite) TestDebuffSignCoercion() {
	s.expectTechnique(&combat.Technique{
		Name: "Demonic Illusion", Cost: 1,
		Effects: []combat.Effect{{
			Type:     combat.EffectDebuff,
			Stats:    map[combat.Stat]combat.Amount{combat.StatPower: "user.power * 0.3"},
			Duration: 2,
		}},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Demonic Illusion")

	s.True(out.Performed)
	s.Require().Len(s.defender.ActiveEffects, 1)
	mod := s.defender.ActiveEffects[0]
	s.Equal(combat.ModifierDebuff, mod.Kind)
	s.InDelta(-15, mod.Deltas[combat.StatPower], 1e-9)
	s.Equal(2, mod.Remaining)
	s.InDelta(15, s.defender.Effective().Power, 1e-9)
	s.InDelta(30, s.defender.Power, 1e-9, "base stat is untouched")
}

func (s *PipelineTestSuite) TestBuffUsesBaseStats() {
	s.attacker.ActiveEffects = []*combat.Modifier{{
		Kind: combat.ModifierBuff, Deltas: map[combat.Stat]float64{combat.StatDefense: 100}, Remaining: 3,
	}}
	s.expectTechnique(&combat.Technique{
		Name: "Substitution Jutsu", Cost: 1,
		Effects: []combat.Effect{{
			Type:  combat.EffectBuff,
			Stats: map[combat.Stat]combat.Amount{combat.StatDefense: "user.defense * 0.5", combat.StatDodge: "20"},
		}},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Substitution Jutsu")

	s.True(out.Hit)
	s.Require().Len(s.attacker.ActiveEffects, 2)
	mod := s.attacker.ActiveEffects[1]
	s.InDelta(5, mod.Deltas[combat.StatDefense], 1e-9)
	s.InDelta(20, mod.Deltas[combat.StatDodge], 1e-9)
	s.Equal(1, mod.Remaining)
}

func (s *PipelineTestSuite) TestMultiHitCountsAsHit() {
	s.attacker.Accuracy = 50
	s.roller.SetPercents(80, 10)
	s.expectTechnique(&combat.Technique{
		Name: "Leaf Rising Wind", Cost: 0,
		Effects: []combat.Effect{
			{Type: combat.EffectDamage, Formula: "10"},
			{Type: combat.EffectDamage, Formula: "15"},
		},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Leaf Rising Wind")

	s.True(out.Hit)
	s.Equal(15, out.Damage)
	s.Contains(out.Notes, "Naruto missed!")
}

func (s *PipelineTestSuite) TestBadFormulaIsSkipped() {
	s.expectTechnique(&combat.Technique{
		Name: "Broken", Cost: 0,
		Effects: []combat.Effect{
			{Type: combat.EffectDamage, Formula: "user.power +* 2"},
			{Type: combat.EffectDamage, Formula: "target.nope"},
			{Type: combat.EffectStatus, Status: combat.StatusStun},
		},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Broken")

	s.True(out.Performed)
	s.Zero(out.Damage)
	s.True(s.defender.HasStatus(combat.StatusStun), "later effects still run")
}

func (s *PipelineTestSuite) TestInstantKill() {
	s.defender.Health = 73
	s.expectTechnique(&combat.Technique{
		Name: "Death Seal", Cost: 3,
		Effects: []combat.Effect{
			{Type: combat.EffectDamage, Formula: "5"},
			{Type: combat.EffectInstantKill, Chance: chance(0.25)},
		},
	})
	s.roller.SetPercents(0, 10)

	out := s.pipeline.ApplyTechnique(s.call(), "Death Seal")

	s.Equal(73, out.Damage)
	s.Equal(0, s.defender.Health)
}

func (s *PipelineTestSuite) TestInstantKillMisses() {
	s.expectTechnique(&combat.Technique{
		Name: "Death Seal", Cost: 3,
		Effects: []combat.Effect{{Type: combat.EffectInstantKill, Chance: chance(0.25)}},
	})
	s.roller.SetPercents(25)

	out := s.pipeline.ApplyTechnique(s.call(), "Death Seal")

	s.Zero(out.Damage)
	s.Equal(100, s.defender.Health)
}

func (s *PipelineTestSuite) TestStatusCapturesPerTurnDamage() {
	s.defender.MaxHealth = 150
	s.expectTechnique(&combat.Technique{
		Name: "Shadow of the Dancing Leaf", Cost: 0,
		Effects: []combat.Effect{{Type: combat.EffectStatus, Status: combat.StatusBleed, Duration: 3}},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Shadow of the Dancing Leaf")

	bleed := s.defender.Status(combat.StatusBleed)
	s.Require().NotNil(bleed)
	s.Equal(15, bleed.PerTurnDamage)
	s.Equal(3, bleed.Remaining)
	s.Contains(out.Notes, "Rogue Ninja is afflicted with bleed")
}

func (s *PipelineTestSuite) TestHealAndResourceGain() {
	s.attacker.Health = 50
	s.attacker.Chakra = 8
	s.expectTechnique(&combat.Technique{
		Name: "Mystical Palm", Cost: 1,
		Effects: []combat.Effect{
			{Type: combat.EffectHeal, Formula: "user.maxHealth * 0.25"},
			{Type: combat.EffectResourceGain, Amount: "5"},
		},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Mystical Palm")

	s.Equal(25, out.Heal)
	s.Equal(75, s.attacker.Health)
	s.Equal(10, s.attacker.Chakra, "resource is clamped to the ceiling")
}

func (s *PipelineTestSuite) TestRoundBasedTechnique() {
	s.expectTechnique(&combat.Technique{
		Name: "Eight Gates", Cost: 4,
		Effects: []combat.Effect{{
			Type: combat.EffectBuff, Stats: map[combat.Stat]combat.Amount{combat.StatPower: "10"},
		}},
		RoundEffects: map[string]combat.RoundVariant{
			"1":   {Description: "the first gate opens"},
			"2-3": {Effects: []combat.Effect{{Type: combat.EffectDamage, Formula: "20"}}},
		},
	})

	out := s.pipeline.ApplyTechnique(s.call(), "Eight Gates")
	s.Equal(6, s.attacker.Chakra)
	s.Contains(out.Notes, "the first gate opens")
	s.Require().Len(s.attacker.Channeling, 1)
	ch := s.attacker.Channeling[0]
	s.Equal(2, ch.Elapsed)

	next, done := s.pipeline.Continue(s.call(), ch)
	s.Require().NotNil(next)
	s.False(done)
	s.Equal(20, next.Damage)

	next, done = s.pipeline.Continue(s.call(), ch)
	s.Require().NotNil(next)
	s.True(done)
	s.Equal(60, s.defender.Health)
	s.Equal(6, s.attacker.Chakra, "later rounds do not pay again")
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func TestHitChance(t *testing.T) {
	tech := &combat.Technique{
		Name:    "Strike",
		Effects: []combat.Effect{{Type: combat.EffectDamage, Formula: "10"}},
	}

	tests := []struct {
		name     string
		accuracy float64
		dodge    float64
		roll     float64
		wantHit  bool
	}{
		{name: "60 percent chance, roll under", accuracy: 90, dodge: 30, roll: 59.9, wantHit: true},
		{name: "60 percent chance, roll at edge", accuracy: 90, dodge: 30, roll: 60, wantHit: false},
		{name: "clamped to zero", accuracy: 10, dodge: 50, roll: 0, wantHit: false},
		{name: "accuracy over 100 clamps", accuracy: 250, dodge: 0, roll: 99.9, wantHit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cat := mockcatalog.NewMockRepository(ctrl)
			cat.EXPECT().GetTechnique("Strike").Return(tech)

			roller := mockdice.NewManualMockRoller()
			roller.SetPercents(tt.roll)
			p := effects.NewPipeline(&effects.PipelineConfig{Catalog: cat, Roller: roller})

			user := &combat.Combatant{ID: "a", Name: "A", Accuracy: tt.accuracy, Health: 10, MaxHealth: 10}
			target := &combat.Combatant{ID: "b", Name: "B", Dodge: tt.dodge, Health: 50, MaxHealth: 50}

			out := p.ApplyTechnique(&effects.Call{User: user, Target: target}, "Strike")
			require.True(t, out.Performed)
			assert.Equal(t, tt.wantHit, out.Hit)
		})
	}
}
