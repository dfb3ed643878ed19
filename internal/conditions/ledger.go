// Package conditions keeps each combatant's timed modifiers: buffs, debuffs and ailments
package conditions

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// DefaultDrainAmount is the chakra a drain ailment burns each round
const DefaultDrainAmount = 5

// PerTurnFraction of max health is captured as bleed/drain damage on application
const PerTurnFraction = 0.10

// LedgerConfig holds dependencies for the ledger
type LedgerConfig struct {
	Logger      *zap.Logger
	DrainAmount int
}

// Ledger applies, ticks and prunes modifiers. It holds no per-engagement state,
// so a single Ledger serves every engagement.
type Ledger struct {
	logger      *zap.Logger
	drainAmount int
}

// NewLedger creates a new ledger
func NewLedger(cfg *LedgerConfig) *Ledger {
	if cfg == nil {
		cfg = &LedgerConfig{}
	}
	drain := cfg.DrainAmount
	if drain <= 0 {
		drain = DefaultDrainAmount
	}
	return &Ledger{
		logger:      logging.OrNop(cfg.Logger),
		drainAmount: drain,
	}
}

// Apply adds a modifier to c. Buffs and debuffs stack. A status that is already
// present is not duplicated; its duration is refreshed if the new one is longer.
func (l *Ledger) Apply(c *combat.Combatant, mod *combat.Modifier) {
	if mod.Remaining <= 0 {
		mod.Remaining = 1
	}

	if mod.Kind == combat.ModifierStatus {
		if existing := c.Status(mod.Status); existing != nil {
			if mod.Remaining > existing.Remaining {
				existing.Remaining = mod.Remaining
			}
			if mod.PerTurnDamage > existing.PerTurnDamage {
				existing.PerTurnDamage = mod.PerTurnDamage
			}
			l.logger.Debug("refreshed status",
				zap.String("combatant", c.ID),
				zap.String("status", mod.Status),
				zap.Int("remaining", existing.Remaining))
			return
		}
	}

	c.ActiveEffects = append(c.ActiveEffects, mod)
	l.logger.Debug("applied modifier",
		zap.String("combatant", c.ID),
		zap.String("kind", string(mod.Kind)),
		zap.String("status", mod.Status),
		zap.Int("remaining", mod.Remaining))
}

// NewStatus builds a status modifier for target. Bleed and drain capture their
// per-turn damage from the target's max health now, not when they tick.
func NewStatus(target *combat.Combatant, status, source string, rounds int) *combat.Modifier {
	mod := &combat.Modifier{
		Kind:      combat.ModifierStatus,
		Source:    source,
		Status:    status,
		Remaining: rounds,
	}
	if mod.IsPerTurn() {
		mod.PerTurnDamage = int(float64(target.MaxHealth) * PerTurnFraction)
	}
	return mod
}

// Tick deals every per-turn ailment's damage to c. Health may go below zero
// here; the caller clamps once the whole round is summed.
func (l *Ledger) Tick(c *combat.Combatant) []combat.Tick {
	var ticks []combat.Tick
	for _, mod := range c.ActiveEffects {
		if !mod.IsPerTurn() {
			continue
		}

		tick := combat.Tick{
			CombatantID: c.ID,
			Status:      mod.Status,
			Damage:      mod.PerTurnDamage,
		}
		c.Health -= mod.PerTurnDamage

		if mod.Status == combat.StatusDrain {
			before := c.Chakra
			c.AddChakra(-l.drainAmount)
			tick.ChakraLoss = before - c.Chakra
		}

		ticks = append(ticks, tick)
	}
	return ticks
}

// Forfeits reports whether c loses its action right now, and why
func (l *Ledger) Forfeits(c *combat.Combatant) (bool, string) {
	if c.HasStatus(combat.StatusStun) {
		return true, fmt.Sprintf("%s is stunned and can't move!", c.Name)
	}
	if c.HasStatus(combat.StatusFlinch) {
		return true, fmt.Sprintf("%s flinched!", c.Name)
	}
	return false, ""
}

// Decay decrements every modifier once and removes those that reach zero.
// It returns a description of each removed modifier.
func (l *Ledger) Decay(c *combat.Combatant) []string {
	var expired []string
	kept := c.ActiveEffects[:0]
	for _, mod := range c.ActiveEffects {
		mod.Remaining--
		if mod.Remaining > 0 {
			kept = append(kept, mod)
			continue
		}
		expired = append(expired, describeExpired(c, mod))
	}

	// nil the tail so pruned modifiers can be collected
	for i := len(kept); i < len(c.ActiveEffects); i++ {
		c.ActiveEffects[i] = nil
	}
	c.ActiveEffects = kept

	if len(expired) > 0 {
		l.logger.Debug("modifiers expired",
			zap.String("combatant", c.ID),
			zap.Strings("expired", expired))
	}
	return expired
}

func describeExpired(c *combat.Combatant, mod *combat.Modifier) string {
	switch mod.Kind {
	case combat.ModifierStatus:
		return fmt.Sprintf("%s is no longer affected by %s", c.Name, mod.Status)
	default:
		if mod.Source != "" {
			return fmt.Sprintf("%s's %s from %s wore off", c.Name, mod.Kind, mod.Source)
		}
		return fmt.Sprintf("%s's %s wore off", c.Name, mod.Kind)
	}
}
