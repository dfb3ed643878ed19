package formula

import "github.com/KirkDiggler/shinobi-bot/internal/domain/combat"

// Defaults for stats a record left at zero
const (
	DefaultPower         = 10
	DefaultUserDefense   = 10
	DefaultTargetDefense = 1
	DefaultChakra        = 10
	DefaultAccuracy      = 100
	DefaultDodge         = 0
)

// Role decides which defaults apply when building Fields
type Role int

const (
	RoleUser Role = iota
	RoleTarget
)

// Fields is the numeric view of one combatant inside a formula
type Fields struct {
	Power     float64 `expr:"power"`
	Defense   float64 `expr:"defense"`
	Health    float64 `expr:"health"`
	MaxHealth float64 `expr:"maxHealth"`
	Chakra    float64 `expr:"chakra"`
	Accuracy  float64 `expr:"accuracy"`
	Dodge     float64 `expr:"dodge"`
}

// Flags are the target-status conveniences available to damage and debuff formulas
type Flags struct {
	Incapacitated bool
	Concealment   bool
}

// SelfEnv is the context for heal, buff and resource formulas: only user.* is visible
type SelfEnv struct {
	User Fields `expr:"user"`
}

// VersusEnv is the context for damage and debuff formulas
type VersusEnv struct {
	User                 Fields `expr:"user"`
	Target               Fields `expr:"target"`
	TargetIncapacitated  bool   `expr:"targetIncapacitated"`
	TargetHasConcealment bool   `expr:"targetHasConcealment"`
}

// Build normalizes stats into Fields. Zero values are treated as missing.
func Build(s combat.Stats, role Role) Fields {
	defense := float64(DefaultUserDefense)
	if role == RoleTarget {
		defense = DefaultTargetDefense
	}

	return Fields{
		Power:     orDefault(s.Power, DefaultPower),
		Defense:   orDefault(s.Defense, defense),
		Health:    s.Health,
		MaxHealth: s.MaxHealth,
		Chakra:    orDefault(s.Chakra, DefaultChakra),
		Accuracy:  orDefault(s.Accuracy, DefaultAccuracy),
		Dodge:     orDefault(s.Dodge, DefaultDodge),
	}
}

// FlagsFor derives the convenience flags from a target's statuses
func FlagsFor(target *combat.Combatant) Flags {
	if target == nil {
		return Flags{}
	}
	return Flags{
		Incapacitated: target.IsIncapacitated(),
		Concealment:   target.HasStatus(combat.StatusConcealment),
	}
}

// Self builds the context for a formula that only sees its owner
func Self(user combat.Stats) SelfEnv {
	return SelfEnv{User: Build(user, RoleUser)}
}

// Versus builds the context for a formula aimed at a target
func Versus(user, target combat.Stats, flags Flags) VersusEnv {
	return VersusEnv{
		User:                 Build(user, RoleUser),
		Target:               Build(target, RoleTarget),
		TargetIncapacitated:  flags.Incapacitated,
		TargetHasConcealment: flags.Concealment,
	}
}

// HitChance is attacker accuracy minus defender dodge, clamped into [0, 100]
func HitChance(user, target Fields) float64 {
	return clampPercent(user.Accuracy - target.Dodge)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
