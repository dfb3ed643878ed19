package combat

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/handlers/discord/utils"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
)

const (
	commandBattle   = "battle"
	commandDuel     = "duel"
	commandRegister = "register"

	optionEnemy    = "enemy"
	optionOpponent = "opponent"

	// Discord caps static choices per option
	maxChoices = 25
)

// HandlerConfig holds dependencies for the combat handler
type HandlerConfig struct {
	Session  Session
	Service  engagement.Service
	Catalog  catalog.Repository
	Players  players.Repository
	Prompter *Prompter
	Logger   *zap.Logger
}

// Handler serves /battle and /duel and the buttons they produce
type Handler struct {
	session  Session
	service  engagement.Service
	catalog  catalog.Repository
	players  players.Repository
	prompter *Prompter
	logger   *zap.Logger

	mu     sync.Mutex
	active map[string]struct{}

	// ctx is the root of every engagement; Shutdown cancels it
	ctx    context.Context
	cancel context.CancelFunc
	// runs tracks background engagements so shutdown can wait for them
	runs sync.WaitGroup
}

// NewHandler creates a new combat handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil {
		panic("handler config is required")
	}
	if cfg.Session == nil || cfg.Service == nil || cfg.Catalog == nil || cfg.Players == nil || cfg.Prompter == nil {
		panic("session, service, catalog, players and prompter are required")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		ctx:      ctx,
		cancel:   cancel,
		session:  cfg.Session,
		service:  cfg.Service,
		catalog:  cfg.Catalog,
		players:  cfg.Players,
		prompter: cfg.Prompter,
		logger:   logging.OrNop(cfg.Logger),
		active:   make(map[string]struct{}),
	}
}

// Commands returns the slash command definitions to register
func (h *Handler) Commands() []*discordgo.ApplicationCommand {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, e := range h.catalog.ListEnemies() {
		if len(choices) == maxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: e.Name, Value: e.Name})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        commandRegister,
			Description: "Enroll at the academy",
		},
		{
			Name:        commandBattle,
			Description: "Fight a computer-controlled enemy",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        optionEnemy,
				Description: "Who to fight",
				Required:    false,
				Choices:     choices,
			}},
		},
		{
			Name:        commandDuel,
			Description: "Challenge another player",
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        optionOpponent,
				Description: "Who to duel",
				Required:    true,
			}},
		},
	}
}

// HandleInteraction dispatches slash commands and combat buttons
func (h *Handler) HandleInteraction(i *discordgo.InteractionCreate) error {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case commandRegister:
			return h.handleRegister(i)
		case commandBattle:
			return h.handleBattle(i, data)
		case commandDuel:
			return h.handleDuel(i, data)
		}
	case discordgo.InteractionMessageComponent:
		if IsCombatComponent(i.MessageComponentData().CustomID) {
			return h.prompter.HandleComponent(i)
		}
	}
	return nil
}

func (h *Handler) handleRegister(i *discordgo.InteractionCreate) error {
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return respondEphemeral(h.session, i, "❌ Could not tell who you are")
	}

	name := user.GlobalName
	if name == "" {
		name = user.Username
	}

	err := h.players.Create(h.ctx, newRecruit(user.ID, name, h.catalog.DefaultTechnique()))
	if cmberr.Is(err, cmberr.CodeAlreadyExists) {
		return respondEphemeral(h.session, i, "You're already enrolled")
	}
	if err != nil {
		return respondError(h.session, i, h.logger, "Could not enroll you", err)
	}

	return respondEphemeral(h.session, i, fmt.Sprintf("🍥 Welcome to the academy, %s! Try `/battle`.", name))
}

// newRecruit is the starting record for a freshly enrolled player
func newRecruit(id, name string, starter *combat.Technique) *players.Player {
	p := &players.Player{
		ID:         id,
		Name:       name,
		Rank:       "academy student",
		Level:      1,
		Power:      50,
		Defense:    30,
		Accuracy:   90,
		Dodge:      10,
		Health:     100,
		MaxHealth:  100,
		Chakra:     5,
		MaxChakra:  10,
		Techniques: map[string]string{},
	}
	if starter != nil {
		p.Techniques["slot1"] = starter.Name
	}
	return p
}

func (h *Handler) handleBattle(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	enemy := utils.GetStringOption(data, optionEnemy)
	if enemy == "" {
		enemies := h.catalog.ListEnemies()
		if len(enemies) == 0 {
			return respondEphemeral(h.session, i, "❌ There is no one to fight")
		}
		enemy = enemies[0].Name
	}

	kind := combat.KindMission
	if tmpl := h.catalog.GetEnemy(enemy); tmpl != nil && tmpl.Combo != "" {
		kind = combat.KindBoss
	}

	userID := interactionUserID(i)
	return h.start(i, []string{userID}, &engagement.Config{
		Kind:      kind,
		ChannelID: i.ChannelID,
		Allies:    []engagement.Participant{{PlayerID: userID}},
		Enemies:   []engagement.Participant{{Enemy: enemy}},
	}, fmt.Sprintf("⚔️ <@%s> engages %s!", userID, enemy))
}

func (h *Handler) handleDuel(i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	opponent := utils.GetUserIDOption(data, optionOpponent)

	userID := interactionUserID(i)
	if opponent == "" || opponent == userID {
		return respondEphemeral(h.session, i, "❌ Pick someone else to duel")
	}

	return h.start(i, []string{userID, opponent}, &engagement.Config{
		Kind:      combat.KindDuel,
		ChannelID: i.ChannelID,
		Allies:    []engagement.Participant{{PlayerID: userID}},
		Enemies:   []engagement.Participant{{PlayerID: opponent}},
	}, fmt.Sprintf("⚔️ <@%s> challenges <@%s> to a duel!", userID, opponent))
}

// start reserves every human, builds the engagement and runs it in the background
func (h *Handler) start(i *discordgo.InteractionCreate, humans []string, cfg *engagement.Config, announce string) error {
	if h.ctx.Err() != nil {
		return respondEphemeral(h.session, i, "❌ The arena is closing, try again shortly")
	}
	if busy := h.reserve(humans); busy != "" {
		return respondEphemeral(h.session, i, fmt.Sprintf("❌ <@%s> is already in a battle", busy))
	}

	battle, err := h.service.Start(h.ctx, cfg)
	if err != nil {
		h.release(humans)
		return respondError(h.session, i, h.logger, "Could not start the battle", err)
	}

	if err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: announce},
	}); err != nil {
		h.logger.Warn("failed to announce battle", zap.Error(err))
	}

	h.runs.Add(1)
	go func() {
		defer h.runs.Done()
		defer h.release(humans)
		h.run(battle)
	}()
	return nil
}

func (h *Handler) run(battle *engagement.Battle) {
	eng := battle.Engagement
	res, err := h.service.Run(h.ctx, battle)
	if cmberr.IsAborted(err) {
		h.logger.Info("engagement aborted", zap.String("engagement_id", eng.ID))
		_, sendErr := h.session.ChannelMessageSendComplex(eng.ChannelID, &discordgo.MessageSend{
			Content: "⚠️ The arena is closing. This battle was called off.",
		})
		if sendErr != nil {
			h.logger.Warn("failed to post abort notice", zap.Error(sendErr))
		}
		return
	}
	if err != nil {
		h.logger.Error("engagement failed",
			append(errorFields(err), zap.String("engagement_id", eng.ID))...)
		_, sendErr := h.session.ChannelMessageSendComplex(eng.ChannelID, &discordgo.MessageSend{
			Content: "❌ Something went wrong and the battle was called off.",
		})
		if sendErr != nil {
			h.logger.Warn("failed to post failure notice", zap.Error(sendErr))
		}
		return
	}

	_, err = h.session.ChannelMessageSendComplex(eng.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{buildResultEmbed(eng, res)},
	})
	if err != nil {
		h.logger.Warn("failed to post result", zap.String("engagement_id", eng.ID), zap.Error(err))
	}
}

// Wait blocks until every running engagement has finished
func (h *Handler) Wait() {
	h.runs.Wait()
}

// Shutdown cancels running engagements and waits for them to wind down.
// New battles are refused afterwards.
func (h *Handler) Shutdown() {
	h.cancel()
	h.runs.Wait()
}

// reserve marks users busy, or returns the first one already fighting
func (h *Handler) reserve(users []string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range users {
		if _, busy := h.active[u]; busy {
			return u
		}
	}
	for _, u := range users {
		h.active[u] = struct{}{}
	}
	return ""
}

func (h *Handler) release(users []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range users {
		delete(h.active, u)
	}
}
