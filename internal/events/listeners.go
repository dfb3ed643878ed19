package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// ListenerFunc adapts a function into an EventListener
type ListenerFunc struct {
	Name  string
	Order int
	Fn    func(ctx context.Context, event Event) error
}

func (l *ListenerFunc) HandleEvent(ctx context.Context, event Event) error { return l.Fn(ctx, event) }
func (l *ListenerFunc) Priority() int                                       { return l.Order }
func (l *ListenerFunc) ID() string                                          { return l.Name }

// NewRoundLogger logs a one-line digest of every round and finish
func NewRoundLogger(logger *zap.Logger) EventListener {
	logger = logging.OrNop(logger)
	return &ListenerFunc{
		Name:  "round-logger",
		Order: PriorityLogging,
		Fn: func(_ context.Context, event Event) error {
			eng := event.GetEngagement()
			switch e := event.(type) {
			case *RoundResolvedEvent:
				logger.Debug("round resolved",
					zap.String("engagement_id", eng.ID),
					zap.Int("round", e.Summary.Round),
					zap.Int("actions", len(e.Summary.Outcomes)),
					zap.Int("ticks", len(e.Summary.Ticks)))
			case *EngagementFinishedEvent:
				logger.Info("engagement finished",
					zap.String("engagement_id", eng.ID),
					zap.String("kind", string(eng.Kind)),
					zap.String("result", string(e.Result)))
			}
			return nil
		},
	}
}
