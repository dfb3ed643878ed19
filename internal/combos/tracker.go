// Package combos watches technique use and fires combo bonuses
package combos

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/effects"
	"github.com/KirkDiggler/shinobi-bot/internal/formula"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// TrackerConfig holds dependencies for the tracker
type TrackerConfig struct {
	Pipeline  *effects.Pipeline
	Evaluator *formula.Evaluator
	Logger    *zap.Logger
}

// Tracker advances combo state and applies the bonus once a combo completes
type Tracker struct {
	pipeline  *effects.Pipeline
	evaluator *formula.Evaluator
	logger    *zap.Logger
}

// NewTracker creates a new combo tracker
func NewTracker(cfg *TrackerConfig) *Tracker {
	if cfg == nil || cfg.Pipeline == nil {
		panic("pipeline is required")
	}

	logger := logging.OrNop(cfg.Logger)
	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = formula.NewEvaluator(&formula.EvaluatorConfig{Logger: logger})
	}

	return &Tracker{
		pipeline:  cfg.Pipeline,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Observe records a paid technique use by call.User. When that use completes the
// combo, the bonus is applied to call.Target and its outcome returned; otherwise nil.
func (t *Tracker) Observe(call *effects.Call, technique string) *combat.ActionOutcome {
	state := call.User.Combo
	if state == nil || state.Definition == nil {
		return nil
	}
	if !state.Mark(technique) || !state.Complete() {
		return nil
	}

	def := state.Definition
	state.Reset()

	t.logger.Info("combo completed",
		zap.String("combatant", call.User.ID),
		zap.String("combo", def.Name))

	return t.applyBonus(call, def)
}

func (t *Tracker) applyBonus(call *effects.Call, def *combat.ComboDefinition) *combat.ActionOutcome {
	out := &combat.ActionOutcome{
		ActorID:     call.User.ID,
		Technique:   def.Name,
		Performed:   true,
		Hit:         true,
		Description: fmt.Sprintf("%s completed the %s combo!", call.User.Name, def.Name),
	}
	if call.Target != nil {
		out.TargetID = call.Target.ID
	}
	if def.Bonus.Description != "" {
		out.Note("%s", def.Bonus.Description)
	}

	bonusCall := *call
	bonusCall.Source = def.Name

	// bonus damage is true damage: no hit roll, no defense
	if def.Bonus.Damage != "" && call.Target != nil {
		out.Damage += t.trueDamage(&bonusCall, def)
	}
	if len(def.Bonus.Effects) > 0 {
		t.pipeline.ApplyEffects(out, &bonusCall, def.Bonus.Effects)
	}

	t.pipeline.Commit(out, &bonusCall)
	return out
}

func (t *Tracker) trueDamage(call *effects.Call, def *combat.ComboDefinition) int {
	v, ok := def.Bonus.Damage.Constant()
	if !ok {
		user := call.User.Effective()
		if call.UserStats != nil {
			user = *call.UserStats
		}
		env := formula.Versus(user, call.Target.Effective(), formula.FlagsFor(call.Target))
		v = t.evaluator.EvaluateOr(string(def.Bonus.Damage), env, 0,
			zap.String("combo", def.Name))
	}
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
