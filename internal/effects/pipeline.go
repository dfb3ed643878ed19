// Package effects resolves technique invocations into state changes and outcomes
package effects

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/conditions"
	"github.com/KirkDiggler/shinobi-bot/internal/dice"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/formula"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
)

// DescriptionFailed is the outcome text for a technique the catalog does not know
const DescriptionFailed = "technique failed"

// PipelineConfig holds dependencies for the pipeline
type PipelineConfig struct {
	Catalog   catalog.Repository
	Evaluator *formula.Evaluator
	Ledger    *conditions.Ledger
	Roller    dice.Roller
	Logger    *zap.Logger
}

// Pipeline applies the effect list of one technique invocation
type Pipeline struct {
	catalog   catalog.Repository
	evaluator *formula.Evaluator
	ledger    *conditions.Ledger
	roller    dice.Roller
	logger    *zap.Logger
}

// NewPipeline creates a new effect pipeline
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	if cfg == nil {
		panic("pipeline config is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	logger := logging.OrNop(cfg.Logger)

	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = formula.NewEvaluator(&formula.EvaluatorConfig{Logger: logger})
	}
	ledger := cfg.Ledger
	if ledger == nil {
		ledger = conditions.NewLedger(&conditions.LedgerConfig{Logger: logger})
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	return &Pipeline{
		catalog:   cfg.Catalog,
		evaluator: evaluator,
		ledger:    ledger,
		roller:    roller,
		logger:    logger,
	}
}

// Call is the acting pair plus the stats formulas should see.
// UserStats and TargetStats default to the live effective stats when nil.
type Call struct {
	User        *combat.Combatant
	Target      *combat.Combatant
	UserStats   *combat.Stats
	TargetStats *combat.Stats
	Source      string
}

func (c *Call) userStats() combat.Stats {
	if c.UserStats != nil {
		return *c.UserStats
	}
	return c.User.Effective()
}

func (c *Call) targetStats() combat.Stats {
	if c.TargetStats != nil {
		return *c.TargetStats
	}
	if c.Target == nil {
		return combat.Stats{}
	}
	return c.Target.Effective()
}

// ApplyTechnique pays for and resolves one technique. Health is adjusted without
// clamping; the caller clamps once the round is summed.
func (p *Pipeline) ApplyTechnique(call *Call, techniqueName string) *combat.ActionOutcome {
	out := &combat.ActionOutcome{
		ActorID:   call.User.ID,
		Technique: techniqueName,
	}
	if call.Target != nil {
		out.TargetID = call.Target.ID
	}

	tech := p.catalog.GetTechnique(techniqueName)
	if tech == nil {
		p.logger.Warn("unknown technique",
			zap.String("combatant", call.User.ID),
			zap.String("technique", techniqueName))
		out.Description = DescriptionFailed
		return out
	}
	out.Technique = tech.Name

	if call.User.Chakra < tech.Cost {
		out.Description = fmt.Sprintf("%s doesn't have enough chakra to use %s", call.User.Name, tech.Name)
		return out
	}

	// cost always comes off base chakra, and only here
	call.User.Chakra -= tech.Cost
	out.Performed = true
	out.Description = describe(call.User, tech.Name)

	effects := tech.Effects
	if tech.IsRoundBased() {
		if variant, ok := tech.Variant(1); ok {
			effects = append(append([]combat.Effect{}, effects...), variant.Effects...)
			if variant.Description != "" {
				out.Note("%s", variant.Description)
			}
		}
		p.startChanneling(call, tech)
	}

	call.Source = tech.Name
	p.ApplyEffects(out, call, effects)
	p.Commit(out, call)
	return out
}

// Continue runs the next round of a channeled technique without paying its cost.
// done is true once the technique has no rounds left and should be dropped.
func (p *Pipeline) Continue(call *Call, ch *combat.Channeling) (out *combat.ActionOutcome, done bool) {
	out = &combat.ActionOutcome{
		ActorID:   call.User.ID,
		Technique: ch.Technique,
		Performed: true,
	}
	if call.Target != nil {
		out.TargetID = call.Target.ID
	}

	tech := p.catalog.GetTechnique(ch.Technique)
	if tech == nil {
		out.Description = DescriptionFailed
		return out, true
	}

	variant, ok := tech.Variant(ch.Elapsed)
	ch.Elapsed++
	done = ch.Elapsed > tech.LastRound()
	if !ok {
		return nil, done
	}

	out.Description = variant.Description
	if out.Description == "" {
		out.Description = fmt.Sprintf("%s's %s continues", call.User.Name, tech.Name)
	}

	call.Source = tech.Name
	p.ApplyEffects(out, call, variant.Effects)
	p.Commit(out, call)
	return out, done
}

// ApplyEffects runs effects in order and accumulates into out. A panicking
// effect is logged and skipped; the rest still run.
func (p *Pipeline) ApplyEffects(out *combat.ActionOutcome, call *Call, effects []combat.Effect) {
	attempted := false
	for i, effect := range effects {
		if effect.Type == combat.EffectDamage {
			attempted = true
		}
		if err := p.safeApply(out, call, effect); err != nil {
			p.logger.Error("effect skipped",
				zap.String("technique", call.Source),
				zap.Int("effect", i),
				zap.String("type", string(effect.Type)),
				zap.Error(err))
		}
	}
	if !attempted {
		out.Hit = true
	}
}

func (p *Pipeline) safeApply(out *combat.ActionOutcome, call *Call, effect combat.Effect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch effect.Type {
	case combat.EffectDamage:
		p.damage(out, call, effect)
	case combat.EffectBuff:
		p.modify(out, call, effect, call.User, combat.ModifierBuff)
	case combat.EffectDebuff:
		p.modify(out, call, effect, call.Target, combat.ModifierDebuff)
	case combat.EffectHeal:
		p.heal(out, call, effect)
	case combat.EffectInstantKill:
		p.instantKill(out, call, effect)
	case combat.EffectStatus:
		p.status(out, call, effect)
	case combat.EffectResourceGain:
		p.resourceGain(out, call, effect)
	default:
		return fmt.Errorf("unknown effect type %q", effect.Type)
	}
	return nil
}

func (p *Pipeline) damage(out *combat.ActionOutcome, call *Call, effect combat.Effect) {
	if call.Target == nil {
		return
	}

	env := formula.Versus(call.userStats(), call.targetStats(), formula.FlagsFor(call.Target))
	chance := formula.HitChance(env.User, env.Target)
	if !dice.Hit(p.roller, chance) {
		if !out.Hit {
			out.Note("%s missed!", call.User.Name)
		}
		return
	}

	out.Hit = true
	v := p.evaluator.EvaluateOr(string(effect.Formula), env, 0,
		zap.String("technique", call.Source),
		zap.String("effect", string(effect.Type)))
	out.Damage += floorPositive(v)
}

func (p *Pipeline) heal(out *combat.ActionOutcome, call *Call, effect combat.Effect) {
	v := p.evaluator.EvaluateOr(string(effect.Formula), formula.Self(call.userStats()), 0,
		zap.String("technique", call.Source),
		zap.String("effect", string(effect.Type)))
	out.Heal += floorPositive(v)
}

// modify pushes a buff onto the user or a debuff onto the target. Deltas are
// computed from the owner's base stats; debuff deltas are always negative.
func (p *Pipeline) modify(out *combat.ActionOutcome, call *Call, effect combat.Effect, owner *combat.Combatant, kind combat.ModifierKind) {
	if owner == nil {
		return
	}

	var env any
	if kind == combat.ModifierBuff {
		env = formula.Self(owner.Base())
	} else {
		env = formula.Versus(call.User.Base(), owner.Base(), formula.FlagsFor(owner))
	}

	deltas := make(map[combat.Stat]float64, len(effect.Stats))
	for stat, amount := range effect.Stats {
		v := p.amount(amount, env, call.Source, effect.Type)
		if kind == combat.ModifierDebuff {
			v = -math.Abs(v)
		}
		deltas[stat] = v
	}

	p.ledger.Apply(owner, &combat.Modifier{
		Kind:      kind,
		Source:    call.Source,
		Deltas:    deltas,
		Remaining: effect.Rounds(),
	})

	for _, stat := range combat.ModifiableStats {
		if delta, ok := deltas[stat]; ok && delta != 0 {
			out.Note("%s's %s %s by %s", owner.Name, stat, direction(delta), formatDelta(delta))
		}
	}
}

func (p *Pipeline) instantKill(out *combat.ActionOutcome, call *Call, effect combat.Effect) {
	if call.Target == nil || !dice.Chance(p.roller, effect.Probability()) {
		return
	}
	out.Damage = call.Target.Health
	out.Hit = true
	out.Note("%s was struck down instantly!", call.Target.Name)
}

func (p *Pipeline) status(out *combat.ActionOutcome, call *Call, effect combat.Effect) {
	if call.Target == nil || !dice.Chance(p.roller, effect.Probability()) {
		return
	}
	mod := conditions.NewStatus(call.Target, effect.Status, call.Source, effect.Rounds())
	p.ledger.Apply(call.Target, mod)
	out.Note("%s is afflicted with %s", call.Target.Name, effect.Status)
}

func (p *Pipeline) resourceGain(out *combat.ActionOutcome, call *Call, effect combat.Effect) {
	v := p.amount(effect.Amount, formula.Self(call.userStats()), call.Source, effect.Type)
	gain := int(math.Floor(v))
	if gain == 0 {
		return
	}
	before := call.User.Chakra
	call.User.AddChakra(gain)
	if diff := call.User.Chakra - before; diff != 0 {
		out.Note("%s gained %d chakra", call.User.Name, diff)
	}
}

// amount resolves a constant or a formula. Failures contribute nothing.
func (p *Pipeline) amount(a combat.Amount, env any, source string, typ combat.EffectType) float64 {
	if v, ok := a.Constant(); ok {
		return v
	}
	return p.evaluator.EvaluateOr(string(a), env, 0,
		zap.String("technique", source),
		zap.String("effect", string(typ)))
}

func (p *Pipeline) startChanneling(call *Call, tech *combat.Technique) {
	if tech.LastRound() < 2 {
		return
	}
	targetID := ""
	if call.Target != nil {
		targetID = call.Target.ID
	}

	// re-activating restarts the count
	for _, ch := range call.User.Channeling {
		if ch.Technique == tech.Name {
			ch.TargetID = targetID
			ch.Elapsed = 2
			return
		}
	}
	call.User.Channeling = append(call.User.Channeling, &combat.Channeling{
		Technique: tech.Name,
		TargetID:  targetID,
		Elapsed:   2,
	})
}

// Commit moves accumulated damage and heal onto the combatants
func (p *Pipeline) Commit(out *combat.ActionOutcome, call *Call) {
	if call.Target != nil && out.Damage > 0 {
		call.Target.Health -= out.Damage
	}
	if out.Heal > 0 {
		call.User.Health += out.Heal
	}
}

func describe(user *combat.Combatant, technique string) string {
	return fmt.Sprintf("%s used %s", user.Name, technique)
}

func floorPositive(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}

func direction(delta float64) string {
	if delta < 0 {
		return "fell"
	}
	return "rose"
}

func formatDelta(delta float64) string {
	return fmt.Sprintf("%g", math.Abs(delta))
}
