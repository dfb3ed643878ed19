package engagement

//go:generate mockgen -destination=mock/mock_prompter.go -package=mockengagement -source=prompter.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// TechniqueOption is one button a human may press
type TechniqueOption struct {
	Name        string
	Cost        int
	Description string
	Affordable  bool
}

// ActionRequest asks one human combatant for this round's action
type ActionRequest struct {
	EngagementID string
	ChannelID    string
	Kind         combat.Kind
	Round        int
	Combatant    combat.CombatantSnapshot
	Techniques   []TechniqueOption
	Targets      []combat.CombatantSnapshot
	Deadline     time.Time
}

// Prompter collects an action from a human. It must support concurrent calls
// and return once ctx is done.
type Prompter interface {
	RequestAction(ctx context.Context, req *ActionRequest) (*combat.Action, error)
}

// Observer is told about every resolved round
type Observer interface {
	RoundResolved(ctx context.Context, eng *combat.Engagement, summary *combat.RoundSummary)
}
