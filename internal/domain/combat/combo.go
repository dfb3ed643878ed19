package combat

import "fmt"

// ComboBonus is applied once every required technique has been used
type ComboBonus struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Damage is unmitigated: no hit roll and no defense adjustment
	Damage  Amount   `json:"damage,omitempty" yaml:"damage,omitempty"`
	Effects []Effect `json:"effects,omitempty" yaml:"effects,omitempty"`
}

// ComboDefinition is immutable catalog data
type ComboDefinition struct {
	Name     string     `json:"name" yaml:"name"`
	Requires []string   `json:"requires" yaml:"requires"`
	Bonus    ComboBonus `json:"bonus" yaml:"bonus"`
}

// Needs reports whether technique is part of the combo
func (d *ComboDefinition) Needs(technique string) bool {
	for _, name := range d.Requires {
		if name == technique {
			return true
		}
	}
	return false
}

// Validate checks the definition is usable
func (d *ComboDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("combo requires a name")
	}
	if len(d.Requires) == 0 {
		return fmt.Errorf("combo %s requires at least one technique", d.Name)
	}
	for i, e := range d.Bonus.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("combo %s bonus effect %d: %w", d.Name, i, err)
		}
	}
	return nil
}

// ComboState tracks one combatant's progress through the current attempt
type ComboState struct {
	Definition *ComboDefinition `json:"definition"`
	Used       map[string]bool  `json:"used"`
}

// NewComboState arms a fresh attempt
func NewComboState(def *ComboDefinition) *ComboState {
	return &ComboState{
		Definition: def,
		Used:       make(map[string]bool, len(def.Requires)),
	}
}

// Mark records a technique use. Techniques outside the combo are ignored.
func (s *ComboState) Mark(technique string) bool {
	if !s.Definition.Needs(technique) || s.Used[technique] {
		return false
	}
	s.Used[technique] = true
	return true
}

// Complete reports whether every required technique has been used
func (s *ComboState) Complete() bool {
	for _, name := range s.Definition.Requires {
		if !s.Used[name] {
			return false
		}
	}
	return true
}

// Reset clears progress so the combo can be attempted again
func (s *ComboState) Reset() {
	s.Used = make(map[string]bool, len(s.Definition.Requires))
}

// Remaining returns the required techniques not used yet, in declared order
func (s *ComboState) Remaining() []string {
	var remaining []string
	for _, name := range s.Definition.Requires {
		if !s.Used[name] {
			remaining = append(remaining, name)
		}
	}
	return remaining
}
