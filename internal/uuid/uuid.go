// Package uuid wraps id generation so engagements get predictable ids in tests
package uuid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique ids
type Generator interface {
	New() string
}

// GoogleUUIDGenerator implements Generator with random v4 uuids
type GoogleUUIDGenerator struct{}

// New generates a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.NewString()
}

// NewGoogleUUIDGenerator creates a new GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequenceGenerator hands out prefix-1, prefix-2, ...
type SequenceGenerator struct {
	Prefix string
	next   atomic.Int64
}

// New returns the next id in the sequence
func (g *SequenceGenerator) New() string {
	return fmt.Sprintf("%s-%d", g.Prefix, g.next.Add(1))
}
