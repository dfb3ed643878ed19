package events

import (
	"context"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
)

// Observer turns engagement round callbacks into bus events
type Observer struct {
	bus *Bus
}

// NewObserver creates an observer that publishes to bus
func NewObserver(bus *Bus) *Observer {
	return &Observer{bus: bus}
}

// RoundResolved publishes the round, and the finish when the round ended the engagement
func (o *Observer) RoundResolved(ctx context.Context, eng *combat.Engagement, summary *combat.RoundSummary) {
	_ = o.bus.Emit(ctx, &RoundResolvedEvent{
		BaseEvent: BaseEvent{Type: EventTypeRoundResolved, Engagement: eng},
		Summary:   summary,
	})

	if !eng.IsActive() {
		_ = o.bus.Emit(ctx, &EngagementFinishedEvent{
			BaseEvent: BaseEvent{Type: EventTypeEngagementFinished, Engagement: eng},
			Result:    eng.Result,
		})
	}
}
