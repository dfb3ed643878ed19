package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/handlers/discord/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// Handler handles all Discord interactions
type Handler struct {
	combatHandler *combat.Handler
	logger        *zap.Logger
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	CombatHandler *combat.Handler
	Logger        *zap.Logger
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.CombatHandler == nil {
		panic("combat handler is required")
	}
	return &Handler{
		combatHandler: cfg.CombatHandler,
		logger:        logging.OrNop(cfg.Logger),
	}
}

// RegisterCommands replaces the application's commands with the current set.
// Use an empty guildID for global commands.
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	commands := h.combatHandler.Commands()

	registered, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	for _, cmd := range registered {
		h.logger.Info("registered command", zap.String("name", cmd.Name), zap.String("guild_id", guildID))
	}

	return nil
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	RecoverMiddleware(h.logger, h.route)(s, i)
}

func (h *Handler) route(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	var name string
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name = i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		name = i.MessageComponentData().CustomID
	default:
		return
	}

	if err := h.combatHandler.HandleInteraction(i); err != nil {
		h.logger.Error("interaction failed",
			zap.String("interaction", name),
			zap.Error(err))
	}
}

// Shutdown aborts running engagements and waits for them to finish
func (h *Handler) Shutdown() {
	h.combatHandler.Shutdown()
}
