package dice

import "math/rand/v2"

// randomRoller implements Roller on the runtime's shared generator
type randomRoller struct{}

// NewRandomRoller creates a new random roller
func NewRandomRoller() Roller {
	return &randomRoller{}
}

// Percent implements Roller.Percent
func (r *randomRoller) Percent() float64 {
	return rand.Float64() * 100
}

// Intn implements Roller.Intn
func (r *randomRoller) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
