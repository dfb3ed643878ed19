package combat

import "fmt"

// ActionKind is what a combatant chose to do this round
type ActionKind string

const (
	ActionTechnique ActionKind = "technique"
	ActionFocus     ActionKind = "focus"
	ActionFlee      ActionKind = "flee"
	// ActionNone is a timed out or absent choice
	ActionNone ActionKind = "none"
)

// FocusGain is the chakra restored by the focus action
const FocusGain = 1

// Action is one combatant's choice for a round
type Action struct {
	CombatantID string     `json:"combatant_id"`
	Kind        ActionKind `json:"kind"`
	Technique   string     `json:"technique,omitempty"`
	TargetID    string     `json:"target_id,omitempty"`
}

// ActionOutcome is the structured result of resolving one action
type ActionOutcome struct {
	ActorID   string `json:"actor_id"`
	TargetID  string `json:"target_id,omitempty"`
	Technique string `json:"technique,omitempty"`

	Damage int  `json:"damage"`
	Heal   int  `json:"heal"`
	Hit    bool `json:"hit"`

	// Performed is true once the technique's cost was paid
	Performed bool `json:"performed"`
	// Forfeited is true when the actor lost the action (stun, flinch, timeout)
	Forfeited bool `json:"forfeited"`

	Description string   `json:"description"`
	Notes       []string `json:"notes,omitempty"`
}

// Note appends a narrative note
func (o *ActionOutcome) Note(format string, args ...any) {
	o.Notes = append(o.Notes, fmt.Sprintf(format, args...))
}

// Absorb folds a follow-up outcome (combo bonus, channeled round) into o
func (o *ActionOutcome) Absorb(other *ActionOutcome) {
	if other == nil {
		return
	}
	o.Damage += other.Damage
	o.Heal += other.Heal
	o.Hit = o.Hit || other.Hit
	if other.Description != "" {
		o.Notes = append(o.Notes, other.Description)
	}
	o.Notes = append(o.Notes, other.Notes...)
}

// Tick is damage dealt by a per-turn ailment at the start of a round
type Tick struct {
	CombatantID string `json:"combatant_id"`
	Status      string `json:"status"`
	Damage      int    `json:"damage"`
	ChakraLoss  int    `json:"chakra_loss,omitempty"`
}

// CombatantSnapshot is the presentation view of a combatant after a round
type CombatantSnapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Side      Side     `json:"side"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Chakra    int      `json:"chakra"`
	MaxChakra int      `json:"max_chakra"`
	Statuses  []string `json:"statuses,omitempty"`
}

// RoundSummary is everything that happened in one round
type RoundSummary struct {
	EngagementID string              `json:"engagement_id"`
	Round        int                 `json:"round"`
	Ticks        []Tick              `json:"ticks,omitempty"`
	Outcomes     []*ActionOutcome    `json:"outcomes"`
	Expired      []string            `json:"expired,omitempty"`
	Combatants   []CombatantSnapshot `json:"combatants"`
	Result       Result              `json:"result"`
}

// Snapshot captures the presentation view of c
func Snapshot(c *Combatant) CombatantSnapshot {
	snap := CombatantSnapshot{
		ID:        c.ID,
		Name:      c.Name,
		Side:      c.Side,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Chakra:    c.Chakra,
		MaxChakra: c.MaxChakra,
	}
	for _, mod := range c.ActiveEffects {
		if mod.Kind == ModifierStatus {
			snap.Statuses = append(snap.Statuses, mod.Status)
		}
	}
	return snap
}
