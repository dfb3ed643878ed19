package combat

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/events"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
)

// Presenter posts a round summary embed after every round
type Presenter struct {
	session Session
	logger  *zap.Logger
}

var (
	_ engagement.Observer  = (*Presenter)(nil)
	_ events.EventListener = (*Presenter)(nil)
)

// NewPresenter creates a new round presenter
func NewPresenter(session Session, logger *zap.Logger) *Presenter {
	if session == nil {
		panic("discord session is required")
	}
	return &Presenter{session: session, logger: logging.OrNop(logger)}
}

// RoundResolved implements engagement.Observer. Presentation failures never
// reach the engagement.
func (p *Presenter) RoundResolved(_ context.Context, eng *combat.Engagement, summary *combat.RoundSummary) {
	if eng.ChannelID == "" {
		return
	}
	_, err := p.session.ChannelMessageSendComplex(eng.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{buildRoundEmbed(eng, summary)},
	})
	if err != nil {
		p.logger.Warn("failed to post round summary",
			zap.String("engagement_id", eng.ID),
			zap.Int("round", summary.Round),
			zap.Error(err))
	}
}

// HandleEvent lets the presenter sit on an event bus
func (p *Presenter) HandleEvent(ctx context.Context, event events.Event) error {
	if e, ok := event.(*events.RoundResolvedEvent); ok {
		p.RoundResolved(ctx, e.Engagement, e.Summary)
	}
	return nil
}

func (p *Presenter) Priority() int { return events.PriorityPresentation }
func (p *Presenter) ID() string    { return "discord-presenter" }
