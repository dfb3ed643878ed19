package catalog

//go:generate mockgen -destination=mock/mock.go -package=mockcatalog -source=interface.go

import (
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// DefaultTechniqueName is offered to anyone with nothing equipped
const DefaultTechniqueName = "Shuriken Throw"

// Repository is the read-only technique, combo and enemy catalog.
// It is loaded once per process and never mutated afterwards.
type Repository interface {
	// GetTechnique returns nil when no technique has that name
	GetTechnique(name string) *combat.Technique

	// GetCombo returns nil when no combo has that name
	GetCombo(name string) *combat.ComboDefinition

	// GetEnemy returns nil when no enemy template has that name
	GetEnemy(name string) *Enemy

	// ListEnemies returns every enemy template in file order
	ListEnemies() []*Enemy

	// DefaultTechnique is the fallback for an empty technique set
	DefaultTechnique() *combat.Technique
}

// Enemy is a computer-controlled combatant template
type Enemy struct {
	Name       string   `json:"name" yaml:"name"`
	Rank       string   `json:"rank,omitempty" yaml:"rank,omitempty"`
	Power      float64  `json:"power" yaml:"power"`
	Defense    float64  `json:"defense" yaml:"defense"`
	Health     int      `json:"health" yaml:"health"`
	Chakra     int      `json:"chakra" yaml:"chakra"`
	Accuracy   float64  `json:"accuracy,omitempty" yaml:"accuracy,omitempty"`
	Dodge      float64  `json:"dodge,omitempty" yaml:"dodge,omitempty"`
	Techniques []string `json:"techniques" yaml:"techniques"`
	Combo      string   `json:"combo,omitempty" yaml:"combo,omitempty"`
}

// File is the on-disk catalog layout
type File struct {
	DefaultTechnique string                   `json:"defaultTechnique,omitempty" yaml:"defaultTechnique,omitempty"`
	Techniques       []combat.Technique       `json:"techniques" yaml:"techniques"`
	Combos           []combat.ComboDefinition `json:"combos,omitempty" yaml:"combos,omitempty"`
	Enemies          []Enemy                  `json:"enemies,omitempty" yaml:"enemies,omitempty"`
}
