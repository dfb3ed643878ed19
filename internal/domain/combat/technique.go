package combat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// EffectType tags the variant carried by an Effect
type EffectType string

const (
	EffectDamage       EffectType = "damage"
	EffectBuff         EffectType = "buff"
	EffectDebuff       EffectType = "debuff"
	EffectHeal         EffectType = "heal"
	EffectInstantKill  EffectType = "instantKill"
	EffectStatus       EffectType = "status"
	EffectResourceGain EffectType = "resourceGain"
)

// Amount is either a numeric constant or a formula. Catalog files may write it as a bare number.
type Amount string

// UnmarshalJSON accepts both "user.power * 2" and 5
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("amount must be a number or a formula string, got %s", b)
	}
	*a = Amount(b)
	return nil
}

// Constant returns the numeric value when the amount is a plain number
func (a Amount) Constant() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(a)), 64)
	return v, err == nil
}

// Effect is one typed operation inside a technique
type Effect struct {
	Type EffectType `json:"type" yaml:"type"`

	// damage, heal
	Formula Amount `json:"formula,omitempty" yaml:"formula,omitempty"`

	// buff, debuff
	Stats map[Stat]Amount `json:"stats,omitempty" yaml:"stats,omitempty"`

	// instantKill, status
	Chance *float64 `json:"chance,omitempty" yaml:"chance,omitempty"`
	Status string   `json:"status,omitempty" yaml:"status,omitempty"`

	// buff, debuff, status
	Duration int `json:"duration,omitempty" yaml:"duration,omitempty"`

	// resourceGain
	Amount Amount `json:"amount,omitempty" yaml:"amount,omitempty"`
}

// Probability returns the effect's chance, defaulting to certain
func (e Effect) Probability() float64 {
	if e.Chance == nil {
		return 1
	}
	return *e.Chance
}

// Rounds returns the duration, defaulting to one round
func (e Effect) Rounds() int {
	if e.Duration <= 0 {
		return 1
	}
	return e.Duration
}

// Validate checks that the effect carries what its type needs
func (e Effect) Validate() error {
	switch e.Type {
	case EffectDamage, EffectHeal:
		if e.Formula == "" {
			return fmt.Errorf("%s effect requires a formula", e.Type)
		}
	case EffectBuff, EffectDebuff:
		if len(e.Stats) == 0 {
			return fmt.Errorf("%s effect requires stats", e.Type)
		}
		for stat := range e.Stats {
			if !stat.IsModifiable() {
				return fmt.Errorf("%s effect targets unknown stat %q", e.Type, stat)
			}
		}
	case EffectInstantKill:
		if e.Chance == nil {
			return fmt.Errorf("instantKill effect requires a chance")
		}
	case EffectStatus:
		if e.Status == "" {
			return fmt.Errorf("status effect requires a status name")
		}
	case EffectResourceGain:
		if e.Amount == "" {
			return fmt.Errorf("resourceGain effect requires an amount")
		}
	default:
		return fmt.Errorf("unknown effect type %q", e.Type)
	}
	return nil
}

// RoundVariant is what a round-scoped technique does during one span of rounds
type RoundVariant struct {
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Effects     []Effect `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// Technique is immutable catalog data describing one action
type Technique struct {
	Name        string   `json:"name" yaml:"name"`
	Cost        int      `json:"cost" yaml:"cost"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Effects     []Effect `json:"effects" yaml:"effects"`

	// RoundEffects keys are "start-end" or "n", counted from 1 at activation
	RoundEffects map[string]RoundVariant `json:"roundEffects,omitempty" yaml:"roundEffects,omitempty"`
}

// IsRoundBased reports whether the technique keeps firing after activation
func (t *Technique) IsRoundBased() bool {
	return len(t.RoundEffects) > 0
}

// Variant returns the variant covering the given elapsed round
func (t *Technique) Variant(elapsed int) (*RoundVariant, bool) {
	for key, variant := range t.RoundEffects {
		start, end, err := ParseRoundRange(key)
		if err != nil {
			continue
		}
		if elapsed >= start && elapsed <= end {
			v := variant
			return &v, true
		}
	}
	return nil, false
}

// LastRound returns the largest round any variant covers
func (t *Technique) LastRound() int {
	last := 0
	for key := range t.RoundEffects {
		_, end, err := ParseRoundRange(key)
		if err == nil && end > last {
			last = end
		}
	}
	return last
}

// Validate checks names, cost and every effect
func (t *Technique) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("technique requires a name")
	}
	if t.Cost < 0 {
		return fmt.Errorf("technique %s has negative cost", t.Name)
	}
	if len(t.Effects) == 0 && !t.IsRoundBased() {
		return fmt.Errorf("technique %s has no effects", t.Name)
	}
	for i, e := range t.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("technique %s effect %d: %w", t.Name, i, err)
		}
	}
	for key, variant := range t.RoundEffects {
		if _, _, err := ParseRoundRange(key); err != nil {
			return fmt.Errorf("technique %s: %w", t.Name, err)
		}
		for i, e := range variant.Effects {
			if err := e.Validate(); err != nil {
				return fmt.Errorf("technique %s round %s effect %d: %w", t.Name, key, i, err)
			}
		}
	}
	return nil
}

// ParseRoundRange parses "3" or "2-5" into an inclusive range
func ParseRoundRange(key string) (start, end int, err error) {
	from, to, isRange := strings.Cut(strings.TrimSpace(key), "-")
	start, err = strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid round range %q", key)
	}
	end = start
	if isRange {
		end, err = strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return 0, 0, fmt.Errorf("invalid round range %q", key)
		}
	}
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid round range %q", key)
	}
	return start, end, nil
}
