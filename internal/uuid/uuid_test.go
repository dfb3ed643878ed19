package uuid_test

import (
	"testing"

	"github.com/KirkDiggler/shinobi-bot/internal/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGoogleUUIDGenerator_Unique(t *testing.T) {
	gen := uuid.NewGoogleUUIDGenerator()

	a, b := gen.New(), gen.New()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestSequenceGenerator(t *testing.T) {
	gen := &uuid.SequenceGenerator{Prefix: "eng"}

	assert.Equal(t, "eng-1", gen.New())
	assert.Equal(t, "eng-2", gen.New())
}
