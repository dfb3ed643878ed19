package engagement

import (
	"github.com/KirkDiggler/shinobi-bot/internal/dice"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// ResolutionOrder decides the order actions resolve in during one round
type ResolutionOrder interface {
	Order(eng *combat.Engagement) []*combat.Combatant
}

// AlliesFirst resolves the whole ally side before the enemy side
type AlliesFirst struct{}

// Order implements ResolutionOrder
func (AlliesFirst) Order(eng *combat.Engagement) []*combat.Combatant {
	return append(eng.Side(combat.SideAlly), eng.Side(combat.SideEnemy)...)
}

// JoinOrder resolves sequentially in the order combatants joined
type JoinOrder struct{}

// Order implements ResolutionOrder
func (JoinOrder) Order(eng *combat.Engagement) []*combat.Combatant {
	out := make([]*combat.Combatant, len(eng.Combatants))
	copy(out, eng.Combatants)
	return out
}

// PolicyInput is what a computer actor can see when choosing
type PolicyInput struct {
	Combatant  *combat.Combatant
	Techniques []*combat.Technique
	Opponents  []*combat.Combatant
}

// ComputerPolicy picks an action for a computer-controlled combatant
type ComputerPolicy interface {
	Choose(in *PolicyInput) *combat.Action
}

// ComboAwarePolicy forfeits when stunned, prefers the next affordable combo
// technique, then picks uniformly among affordable techniques, else focuses.
type ComboAwarePolicy struct {
	Roller dice.Roller
}

// Choose implements ComputerPolicy
func (p *ComboAwarePolicy) Choose(in *PolicyInput) *combat.Action {
	c := in.Combatant
	action := &combat.Action{CombatantID: c.ID, Kind: combat.ActionNone}
	if c.HasStatus(combat.StatusStun) || len(in.Opponents) == 0 {
		return action
	}

	var affordable []*combat.Technique
	for _, t := range in.Techniques {
		if t != nil && t.Cost <= c.Chakra {
			affordable = append(affordable, t)
		}
	}
	if len(affordable) == 0 {
		action.Kind = combat.ActionFocus
		return action
	}

	action.Kind = combat.ActionTechnique
	action.TargetID = in.Opponents[p.Roller.Intn(len(in.Opponents))].ID

	if c.Combo != nil {
		for _, name := range c.Combo.Remaining() {
			for _, t := range affordable {
				if t.Name == name {
					action.Technique = t.Name
					return action
				}
			}
		}
	}

	action.Technique = affordable[p.Roller.Intn(len(affordable))].Name
	return action
}
