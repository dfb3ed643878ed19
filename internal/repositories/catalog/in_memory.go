package catalog

import (
	"strings"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

type inMemoryRepository struct {
	techniques       map[string]*combat.Technique
	combos           map[string]*combat.ComboDefinition
	enemies          map[string]*Enemy
	enemyOrder       []*Enemy
	defaultTechnique *combat.Technique
}

// ShurikenThrow is the built-in fallback technique
func ShurikenThrow() *combat.Technique {
	return &combat.Technique{
		Name:        DefaultTechniqueName,
		Cost:        0,
		Description: "user throws a volley of shuriken at target",
		Effects: []combat.Effect{
			{Type: combat.EffectDamage, Formula: "max(5, user.power * 0.5 - target.defense * 0.2)"},
		},
	}
}

// NewInMemoryRepository validates and indexes a catalog file. Lookups are case-insensitive.
func NewInMemoryRepository(f *File) (Repository, error) {
	r := &inMemoryRepository{
		techniques: make(map[string]*combat.Technique, len(f.Techniques)),
		combos:     make(map[string]*combat.ComboDefinition, len(f.Combos)),
		enemies:    make(map[string]*Enemy, len(f.Enemies)),
	}

	for i := range f.Techniques {
		t := f.Techniques[i]
		if err := t.Validate(); err != nil {
			return nil, cmberr.WrapWithCode(err, cmberr.CodeInvalidArgument, "invalid technique").
				WithMeta("index", i)
		}
		key := normalize(t.Name)
		if _, exists := r.techniques[key]; exists {
			return nil, cmberr.InvalidArgumentf("duplicate technique %q", t.Name)
		}
		r.techniques[key] = &t
	}

	for i := range f.Combos {
		c := f.Combos[i]
		if err := c.Validate(); err != nil {
			return nil, cmberr.WrapWithCode(err, cmberr.CodeInvalidArgument, "invalid combo")
		}
		requires := make([]string, len(c.Requires))
		for j, name := range c.Requires {
			t := r.techniques[normalize(name)]
			if t == nil {
				return nil, cmberr.InvalidArgumentf("combo %q requires unknown technique %q", c.Name, name)
			}
			requires[j] = t.Name
		}
		c.Requires = requires
		r.combos[normalize(c.Name)] = &c
	}

	defaultName := f.DefaultTechnique
	if defaultName == "" {
		defaultName = DefaultTechniqueName
	}
	r.defaultTechnique = r.techniques[normalize(defaultName)]
	if r.defaultTechnique == nil {
		if f.DefaultTechnique != "" {
			return nil, cmberr.InvalidArgumentf("default technique %q is not in the catalog", f.DefaultTechnique)
		}
		r.defaultTechnique = ShurikenThrow()
		r.techniques[normalize(DefaultTechniqueName)] = r.defaultTechnique
	}

	for i := range f.Enemies {
		e := f.Enemies[i]
		if e.Name == "" || e.Health <= 0 {
			return nil, cmberr.InvalidArgumentf("enemy %d needs a name and positive health", i)
		}
		for _, name := range e.Techniques {
			if r.techniques[normalize(name)] == nil {
				return nil, cmberr.InvalidArgumentf("enemy %q uses unknown technique %q", e.Name, name)
			}
		}
		if e.Combo != "" && r.combos[normalize(e.Combo)] == nil {
			return nil, cmberr.InvalidArgumentf("enemy %q uses unknown combo %q", e.Name, e.Combo)
		}
		r.enemies[normalize(e.Name)] = &e
		r.enemyOrder = append(r.enemyOrder, &e)
	}

	return r, nil
}

func (r *inMemoryRepository) GetTechnique(name string) *combat.Technique {
	return r.techniques[normalize(name)]
}

func (r *inMemoryRepository) GetCombo(name string) *combat.ComboDefinition {
	return r.combos[normalize(name)]
}

func (r *inMemoryRepository) GetEnemy(name string) *Enemy {
	return r.enemies[normalize(name)]
}

func (r *inMemoryRepository) ListEnemies() []*Enemy {
	out := make([]*Enemy, len(r.enemyOrder))
	copy(out, r.enemyOrder)
	return out
}

func (r *inMemoryRepository) DefaultTechnique() *combat.Technique {
	return r.defaultTechnique
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
