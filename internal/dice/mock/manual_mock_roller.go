package mockdice

import (
	"sync"

	"github.com/KirkDiggler/shinobi-bot/internal/dice"
)

// ManualMockRoller implements dice.Roller for testing with predetermined results.
// Once the scripted values run out it keeps returning the defaults.
type ManualMockRoller struct {
	mu           sync.Mutex
	percents     []float64
	ints         []int
	percentIndex int
	intIndex     int

	DefaultPercent float64
	DefaultInt     int
}

var _ dice.Roller = (*ManualMockRoller)(nil)

// NewManualMockRoller creates a roller that always hits until told otherwise
func NewManualMockRoller() *ManualMockRoller {
	return &ManualMockRoller{}
}

// SetPercents scripts the next Percent results
func (m *ManualMockRoller) SetPercents(values ...float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.percents = values
	m.percentIndex = 0
}

// SetInts scripts the next Intn results
func (m *ManualMockRoller) SetInts(values ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ints = values
	m.intIndex = 0
}

// Percent implements dice.Roller
func (m *ManualMockRoller) Percent() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.percentIndex >= len(m.percents) {
		return m.DefaultPercent
	}
	v := m.percents[m.percentIndex]
	m.percentIndex++
	return v
}

// Intn implements dice.Roller. Scripted values are reduced modulo n.
func (m *ManualMockRoller) Intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := m.DefaultInt
	if m.intIndex < len(m.ints) {
		v = m.ints[m.intIndex]
		m.intIndex++
	}
	if n <= 0 {
		return 0
	}
	return v % n
}

// Remaining returns how many scripted percents have not been consumed
func (m *ManualMockRoller) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.percents) - m.percentIndex
}
