package combat

import (
	"maps"
	"slices"
)

// Side groups combatants that win or lose together
type Side string

const (
	SideAlly  Side = "ally"
	SideEnemy Side = "enemy"
)

// Opposing returns the other side
func (s Side) Opposing() Side {
	if s == SideAlly {
		return SideEnemy
	}
	return SideAlly
}

// Stat names a stat that modifiers can shift
type Stat string

const (
	StatPower    Stat = "power"
	StatDefense  Stat = "defense"
	StatAccuracy Stat = "accuracy"
	StatDodge    Stat = "dodge"
)

// ModifiableStats lists every stat a buff or debuff may target
var ModifiableStats = []Stat{StatPower, StatDefense, StatAccuracy, StatDodge}

// IsModifiable reports whether s is a stat modifiers can shift
func (s Stat) IsModifiable() bool {
	for _, m := range ModifiableStats {
		if m == s {
			return true
		}
	}
	return false
}

// Stats is a flat read-only view of a combatant's numbers
type Stats struct {
	Power     float64 `json:"power"`
	Defense   float64 `json:"defense"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Chakra    float64 `json:"chakra"`
	MaxChakra float64 `json:"max_chakra"`
	Accuracy  float64 `json:"accuracy"`
	Dodge     float64 `json:"dodge"`
}

// Get returns the value of a modifiable stat
func (s Stats) Get(stat Stat) float64 {
	switch stat {
	case StatPower:
		return s.Power
	case StatDefense:
		return s.Defense
	case StatAccuracy:
		return s.Accuracy
	case StatDodge:
		return s.Dodge
	}
	return 0
}

func (s *Stats) add(stat Stat, delta float64) {
	switch stat {
	case StatPower:
		s.Power += delta
	case StatDefense:
		s.Defense += delta
	case StatAccuracy:
		s.Accuracy += delta
	case StatDodge:
		s.Dodge += delta
	}
}

// Combatant is a participant in one engagement
type Combatant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Side  Side   `json:"side"`
	Human bool   `json:"human"`
	Rank  string `json:"rank,omitempty"`

	Power     float64 `json:"power"`
	Defense   float64 `json:"defense"`
	Accuracy  float64 `json:"accuracy"`
	Dodge     float64 `json:"dodge"`
	Health    int     `json:"health"`
	MaxHealth int     `json:"max_health"`
	Chakra    int     `json:"chakra"`
	MaxChakra int     `json:"max_chakra"`

	// ActiveEffects only ever holds modifiers with Remaining > 0
	ActiveEffects []*Modifier `json:"active_effects"`

	// Techniques maps slot -> technique name
	Techniques map[string]string `json:"techniques"`

	Combo      *ComboState   `json:"combo,omitempty"`
	Channeling []*Channeling `json:"channeling,omitempty"`
}

// IsAlive returns true if the combatant has more than 0 health
func (c *Combatant) IsAlive() bool {
	return c.Health > 0
}

// Base returns the combatant's stats without modifiers
func (c *Combatant) Base() Stats {
	return Stats{
		Power:     c.Power,
		Defense:   c.Defense,
		Health:    float64(c.Health),
		MaxHealth: float64(c.MaxHealth),
		Chakra:    float64(c.Chakra),
		MaxChakra: float64(c.MaxChakra),
		Accuracy:  c.Accuracy,
		Dodge:     c.Dodge,
	}
}

// Effective returns base stats plus the sum of every active modifier delta
func (c *Combatant) Effective() Stats {
	stats := c.Base()
	for _, mod := range c.ActiveEffects {
		for stat, delta := range mod.Deltas {
			stats.add(stat, delta)
		}
	}
	return stats
}

// HasStatus reports whether an active status modifier with the given name exists
func (c *Combatant) HasStatus(name string) bool {
	return c.Status(name) != nil
}

// Status returns the first active status modifier with the given name
func (c *Combatant) Status(name string) *Modifier {
	for _, mod := range c.ActiveEffects {
		if mod.Kind == ModifierStatus && mod.Status == name {
			return mod
		}
	}
	return nil
}

// IsIncapacitated reports whether the combatant is stunned or flinching
func (c *Combatant) IsIncapacitated() bool {
	return c.HasStatus(StatusStun) || c.HasStatus(StatusFlinch)
}

// TechniqueNames returns the equipped technique names in slot order
func (c *Combatant) TechniqueNames() []string {
	slots := slices.Sorted(maps.Keys(c.Techniques))
	names := make([]string, 0, len(slots))
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		name := c.Techniques[slot]
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// AddChakra shifts chakra by delta, clamped to [0, MaxChakra]
func (c *Combatant) AddChakra(delta int) {
	c.Chakra = clamp(c.Chakra+delta, 0, c.MaxChakra)
}

// ClampHealth pulls health back into [0, MaxHealth]
func (c *Combatant) ClampHealth() {
	c.Health = clamp(c.Health, 0, c.MaxHealth)
}

// Channeling tracks a round-scoped technique that keeps firing after activation
type Channeling struct {
	Technique string `json:"technique"`
	TargetID  string `json:"target_id"`
	// Elapsed is the variant round that fires next; activation itself is round 1
	Elapsed int `json:"elapsed"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
