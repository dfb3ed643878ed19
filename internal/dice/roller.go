package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=mockdice -source=roller.go

// Roller is the single source of randomness for combat resolution.
// Inject a scripted roller in tests to make hit checks and AI picks deterministic.
type Roller interface {
	// Percent returns a value in [0, 100)
	Percent() float64

	// Intn returns a value in [0, n). n must be > 0
	Intn(n int) int
}

// Chance reports whether an event with probability p (0..1) happens
func Chance(r Roller, p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	return r.Percent() < p*100
}

// Hit reports whether an attack with the given hit chance (0..100) lands
func Hit(r Roller, hitChance float64) bool {
	if hitChance >= 100 {
		return true
	}
	if hitChance <= 0 {
		return false
	}
	return r.Percent() < hitChance
}
