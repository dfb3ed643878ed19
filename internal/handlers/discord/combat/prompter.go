package combat

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
	"github.com/KirkDiggler/shinobi-bot/internal/uuid"
)

// PrompterConfig holds dependencies for the prompter
type PrompterConfig struct {
	Session       Session
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
}

// Prompter posts action buttons to the engagement channel and waits for the
// owning user to click one. Each outstanding prompt has its own reply channel,
// so any number of prompts can be pending at once.
type Prompter struct {
	session Session
	uuid    uuid.Generator
	logger  *zap.Logger

	mu      sync.Mutex
	pending map[string]*pendingPrompt
}

type pendingPrompt struct {
	userID     string
	techniques []engagement.TechniqueOption
	replies    chan *combat.Action
}

var _ engagement.Prompter = (*Prompter)(nil)

// NewPrompter creates a new discord prompter
func NewPrompter(cfg *PrompterConfig) *Prompter {
	if cfg == nil || cfg.Session == nil {
		panic("discord session is required")
	}
	gen := cfg.UUIDGenerator
	if gen == nil {
		gen = uuid.NewGoogleUUIDGenerator()
	}
	return &Prompter{
		session: cfg.Session,
		uuid:    gen,
		logger:  logging.OrNop(cfg.Logger),
		pending: make(map[string]*pendingPrompt),
	}
}

// RequestAction implements engagement.Prompter
func (p *Prompter) RequestAction(ctx context.Context, req *engagement.ActionRequest) (*combat.Action, error) {
	token := p.uuid.New()
	prompt := &pendingPrompt{
		userID:     req.Combatant.ID,
		techniques: req.Techniques,
		replies:    make(chan *combat.Action, 1),
	}

	p.mu.Lock()
	p.pending[token] = prompt
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.pending, token)
		p.mu.Unlock()
	}()

	msg, err := p.session.ChannelMessageSendComplex(req.ChannelID, &discordgo.MessageSend{
		Content:    fmt.Sprintf("<@%s>", req.Combatant.ID),
		Embeds:     []*discordgo.MessageEmbed{buildPromptEmbed(req)},
		Components: buildPromptComponents(token, req),
	})
	if err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeUnavailable, "failed to send action prompt").
			WithMeta("engagement_id", req.EngagementID)
	}

	select {
	case action := <-prompt.replies:
		p.closePrompt(msg, fmt.Sprintf("✅ %s has chosen.", req.Combatant.Name))
		return action, nil
	case <-ctx.Done():
		p.closePrompt(msg, fmt.Sprintf("⏰ %s ran out of time.", req.Combatant.Name))
		return nil, ctx.Err()
	}
}

// closePrompt strips the buttons so a late click can't land
func (p *Prompter) closePrompt(msg *discordgo.Message, content string) {
	if msg == nil {
		return
	}
	components := []discordgo.MessageComponent{}
	_, err := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         msg.ID,
		Channel:    msg.ChannelID,
		Content:    &content,
		Components: &components,
	})
	if err != nil {
		p.logger.Debug("failed to close prompt", zap.String("message_id", msg.ID), zap.Error(err))
	}
}

// HandleComponent routes a combat:act button click to the waiting prompt
func (p *Prompter) HandleComponent(i *discordgo.InteractionCreate) error {
	token, choice, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return respondEphemeral(p.session, i, "❌ Unknown combat action")
	}

	p.mu.Lock()
	prompt := p.pending[token]
	p.mu.Unlock()

	if prompt == nil {
		return respondEphemeral(p.session, i, "⏰ This prompt has expired")
	}
	if interactionUserID(i) != prompt.userID {
		return respondEphemeral(p.session, i, "🚫 This isn't your move to make")
	}

	action, err := prompt.decode(choice)
	if err != nil {
		return respondError(p.session, i, p.logger, "Invalid choice", err)
	}
	if action.Kind == combat.ActionTechnique && !prompt.affordable(action.Technique) {
		return respondEphemeral(p.session, i, "🌀 Not enough chakra for that")
	}

	select {
	case prompt.replies <- action:
	default:
		return respondEphemeral(p.session, i, "You've already chosen this round")
	}

	return p.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func (pp *pendingPrompt) decode(choice string) (*combat.Action, error) {
	action := &combat.Action{CombatantID: pp.userID}
	switch {
	case choice == choiceFocus:
		action.Kind = combat.ActionFocus
	case choice == choiceFlee:
		action.Kind = combat.ActionFlee
	case strings.HasPrefix(choice, "t"):
		idx, err := strconv.Atoi(strings.TrimPrefix(choice, "t"))
		if err != nil || idx < 0 || idx >= len(pp.techniques) {
			return nil, cmberr.InvalidArgumentf("technique choice %q out of range", choice)
		}
		action.Kind = combat.ActionTechnique
		action.Technique = pp.techniques[idx].Name
	default:
		return nil, cmberr.InvalidArgumentf("unknown choice %q", choice)
	}
	return action, nil
}

func (pp *pendingPrompt) affordable(name string) bool {
	for _, t := range pp.techniques {
		if t.Name == name {
			return t.Affordable
		}
	}
	return false
}
