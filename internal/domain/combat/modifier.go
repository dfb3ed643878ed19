package combat

// ModifierKind separates stat shifts from named ailments
type ModifierKind string

const (
	ModifierBuff   ModifierKind = "buff"
	ModifierDebuff ModifierKind = "debuff"
	ModifierStatus ModifierKind = "status"
)

// Known status names
const (
	StatusStun        = "stun"
	StatusFlinch      = "flinch"
	StatusBleed       = "bleed"
	StatusDrain       = "drain"
	StatusConcealment = "concealment"
)

// Modifier is one timed entry in a combatant's ActiveEffects
type Modifier struct {
	Kind   ModifierKind     `json:"kind"`
	Source string           `json:"source,omitempty"`
	Deltas map[Stat]float64 `json:"deltas,omitempty"`
	Status string           `json:"status,omitempty"`

	Remaining int `json:"remaining"`

	// PerTurnDamage is captured when a bleed or drain is applied
	PerTurnDamage int `json:"per_turn_damage,omitempty"`
}

// IsPerTurn reports whether the modifier deals damage every round
func (m *Modifier) IsPerTurn() bool {
	return m.Kind == ModifierStatus && (m.Status == StatusBleed || m.Status == StatusDrain)
}
