package players

//go:generate mockgen -destination=mock/mock.go -package=mockplayers -source=interface.go

import (
	"context"
	"time"
)

// Player is the persisted record a combatant is built from
type Player struct {
	ID    string
	Name  string
	Rank  string
	Level int

	Power     float64
	Defense   float64
	Accuracy  float64
	Dodge     float64
	Health    int
	MaxHealth int
	Chakra    int
	MaxChakra int

	// Techniques maps slot -> technique name
	Techniques map[string]string
	Combo      string

	Wins   int
	Losses int
	Exp    float64
	Money  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outcome is what an engagement writes back when it terminates
type Outcome struct {
	Health    int
	Chakra    int
	WinDelta  int
	LossDelta int
}

// Repository persists player records. Writes are last-writer-wins.
type Repository interface {
	// Get retrieves a player by ID
	Get(ctx context.Context, id string) (*Player, error)

	// GetMany retrieves several players, in the order requested
	GetMany(ctx context.Context, ids []string) ([]*Player, error)

	// Create stores a new player, stamping CreatedAt and UpdatedAt
	Create(ctx context.Context, player *Player) error

	// SaveOutcome writes final health and chakra and bumps win/loss counters
	SaveOutcome(ctx context.Context, id string, outcome *Outcome) error

	// AddRewards credits experience and money
	AddRewards(ctx context.Context, id string, exp float64, money int) error
}
