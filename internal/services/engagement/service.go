// Package engagement drives the round loop of a battle
package engagement

//go:generate mockgen -destination=mock/mock_service.go -package=mockengagement -source=service.go

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/shinobi-bot/internal/combos"
	"github.com/KirkDiggler/shinobi-bot/internal/conditions"
	"github.com/KirkDiggler/shinobi-bot/internal/dice"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/effects"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
	"github.com/KirkDiggler/shinobi-bot/internal/uuid"
)

// Service defines the engagement service interface
type Service interface {
	// Start loads every participant and builds a fresh engagement
	Start(ctx context.Context, cfg *Config) (*Battle, error)

	// PlayRound runs one full round: collect, resolve, upkeep, termination check
	PlayRound(ctx context.Context, battle *Battle) (*combat.RoundSummary, error)

	// Run plays rounds until the engagement terminates, writes final player
	// state back and resolves the outcome
	Run(ctx context.Context, battle *Battle) (*outcome.Resolution, error)
}

// Battle is a running engagement plus the configuration it was started with
type Battle struct {
	Engagement *combat.Engagement
	Config     *Config
}

type service struct {
	players  players.Repository
	catalog  catalog.Repository
	pipeline *effects.Pipeline
	tracker  *combos.Tracker
	ledger   *conditions.Ledger
	resolver *outcome.Resolver
	prompter Prompter
	observer Observer
	roller   dice.Roller
	uuid     uuid.Generator
	rules    Rules
	logger   *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Players       players.Repository
	Catalog       catalog.Repository
	Prompter      Prompter
	Pipeline      *effects.Pipeline
	Tracker       *combos.Tracker
	Ledger        *conditions.Ledger
	Resolver      *outcome.Resolver
	Observer      Observer
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Rules         *Rules
	Logger        *zap.Logger
}

// NewService creates a new engagement service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("service config is required")
	}
	if cfg.Players == nil {
		panic("player repository is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Prompter == nil {
		panic("prompter is required")
	}

	logger := logging.OrNop(cfg.Logger)

	svc := &service{
		players:  cfg.Players,
		catalog:  cfg.Catalog,
		prompter: cfg.Prompter,
		observer: cfg.Observer,
		logger:   logger,
		rules:    DefaultRules(),
	}
	if cfg.Rules != nil {
		svc.rules = *cfg.Rules
	}

	svc.roller = cfg.Roller
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	svc.uuid = cfg.UUIDGenerator
	if svc.uuid == nil {
		svc.uuid = uuid.NewGoogleUUIDGenerator()
	}
	svc.ledger = cfg.Ledger
	if svc.ledger == nil {
		svc.ledger = conditions.NewLedger(&conditions.LedgerConfig{Logger: logger})
	}
	svc.pipeline = cfg.Pipeline
	if svc.pipeline == nil {
		svc.pipeline = effects.NewPipeline(&effects.PipelineConfig{
			Catalog: cfg.Catalog,
			Ledger:  svc.ledger,
			Roller:  svc.roller,
			Logger:  logger,
		})
	}
	svc.tracker = cfg.Tracker
	if svc.tracker == nil {
		svc.tracker = combos.NewTracker(&combos.TrackerConfig{Pipeline: svc.pipeline, Logger: logger})
	}
	svc.resolver = cfg.Resolver
	if svc.resolver == nil {
		svc.resolver = outcome.NewResolver(&outcome.ResolverConfig{Logger: logger})
	}

	return svc
}

// Start loads every participant and builds a fresh engagement
func (s *service) Start(ctx context.Context, cfg *Config) (*Battle, error) {
	if cfg == nil {
		return nil, cmberr.InvalidArgument("config cannot be nil")
	}
	if len(cfg.Allies) == 0 || len(cfg.Enemies) == 0 {
		return nil, cmberr.InvalidArgument("both sides need at least one combatant")
	}
	cfg = s.withDefaults(cfg)

	var ids []string
	seen := make(map[string]bool)
	for _, p := range append(append([]Participant{}, cfg.Allies...), cfg.Enemies...) {
		if p.PlayerID == "" {
			continue
		}
		if seen[p.PlayerID] {
			return nil, cmberr.InvalidArgumentf("player %s cannot join twice", p.PlayerID)
		}
		seen[p.PlayerID] = true
		ids = append(ids, p.PlayerID)
	}

	records := make(map[string]*players.Player, len(ids))
	if len(ids) > 0 {
		loaded, err := s.players.GetMany(ctx, ids)
		if err != nil {
			return nil, cmberr.Wrap(err, "failed to load players")
		}
		for _, p := range loaded {
			records[p.ID] = p
		}
	}

	var combatants []*combat.Combatant
	npc := 0
	for _, seat := range []struct {
		side         combat.Side
		participants []Participant
	}{
		{combat.SideAlly, cfg.Allies},
		{combat.SideEnemy, cfg.Enemies},
	} {
		for _, p := range seat.participants {
			var (
				c   *combat.Combatant
				err error
			)
			if p.PlayerID != "" {
				c, err = s.fromPlayer(records[p.PlayerID], seat.side)
			} else {
				npc++
				c, err = s.fromEnemy(p.Enemy, seat.side, npc)
			}
			if err != nil {
				return nil, err
			}
			combatants = append(combatants, c)
		}
	}

	eng := combat.NewEngagement(s.uuid.New(), cfg.Kind, combatants)
	eng.ChannelID = cfg.ChannelID

	s.logger.Info("engagement started",
		zap.String("engagement_id", eng.ID),
		zap.String("kind", string(eng.Kind)),
		zap.Int("combatants", len(combatants)))

	return &Battle{Engagement: eng, Config: cfg}, nil
}

func (s *service) fromPlayer(p *players.Player, side combat.Side) (*combat.Combatant, error) {
	if p == nil {
		return nil, cmberr.NotFound("player record missing")
	}

	c := &combat.Combatant{
		ID:         p.ID,
		Name:       p.Name,
		Side:       side,
		Human:      true,
		Rank:       p.Rank,
		Power:      p.Power,
		Defense:    p.Defense,
		Accuracy:   p.Accuracy,
		Dodge:      p.Dodge,
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		MaxChakra:  s.ceiling(p.MaxChakra),
		Techniques: make(map[string]string, len(p.Techniques)),
	}
	c.Chakra = min(max(p.Chakra, 0), c.MaxChakra)
	for slot, name := range p.Techniques {
		if name != "" {
			c.Techniques[slot] = name
		}
	}
	if len(c.Techniques) == 0 {
		c.Techniques["slot1"] = s.catalog.DefaultTechnique().Name
	}

	if p.Combo != "" {
		def := s.catalog.GetCombo(p.Combo)
		if def == nil {
			return nil, cmberr.InvalidArgumentf("player %s has unknown combo %q", p.ID, p.Combo)
		}
		c.Combo = combat.NewComboState(def)
	}
	return c, nil
}

func (s *service) fromEnemy(name string, side combat.Side, n int) (*combat.Combatant, error) {
	tmpl := s.catalog.GetEnemy(name)
	if tmpl == nil {
		return nil, cmberr.InvalidArgumentf("unknown enemy %q", name)
	}

	c := &combat.Combatant{
		ID:         fmt.Sprintf("npc-%d", n),
		Name:       tmpl.Name,
		Side:       side,
		Rank:       tmpl.Rank,
		Power:      tmpl.Power,
		Defense:    tmpl.Defense,
		Accuracy:   tmpl.Accuracy,
		Dodge:      tmpl.Dodge,
		Health:     tmpl.Health,
		MaxHealth:  tmpl.Health,
		MaxChakra:  s.rules.ResourceCeiling,
		Techniques: make(map[string]string, len(tmpl.Techniques)),
	}
	c.Chakra = min(max(tmpl.Chakra, 0), c.MaxChakra)
	for i, t := range tmpl.Techniques {
		c.Techniques[fmt.Sprintf("slot%d", i+1)] = t
	}
	if len(c.Techniques) == 0 {
		c.Techniques["slot1"] = s.catalog.DefaultTechnique().Name
	}

	if tmpl.Combo != "" {
		def := s.catalog.GetCombo(tmpl.Combo)
		if def == nil {
			return nil, cmberr.InvalidArgumentf("enemy %s has unknown combo %q", tmpl.Name, tmpl.Combo)
		}
		c.Combo = combat.NewComboState(def)
	}
	return c, nil
}

// ceiling caps a stored max chakra at the rule set's resource ceiling
func (s *service) ceiling(stored int) int {
	if stored <= 0 || stored > s.rules.ResourceCeiling {
		return s.rules.ResourceCeiling
	}
	return stored
}

// PlayRound runs one round. A panic aborts only this engagement.
func (s *service) PlayRound(ctx context.Context, battle *Battle) (summary *combat.RoundSummary, err error) {
	if battle == nil || battle.Engagement == nil || battle.Config == nil {
		return nil, cmberr.InvalidArgument("battle cannot be nil")
	}
	eng := battle.Engagement
	if !eng.IsActive() {
		return nil, cmberr.InvalidArgumentf("engagement %s has terminated", eng.ID)
	}

	defer func() {
		if r := recover(); r != nil {
			eng.State = combat.StateTerminated
			s.logger.Error("round panicked, aborting engagement",
				zap.String("engagement_id", eng.ID),
				zap.Int("round", eng.Round),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			summary = nil
			err = cmberr.Internalf("engagement %s aborted", eng.ID).WithMeta("round", eng.Round)
		}
	}()

	return s.playRound(ctx, battle)
}

// Run plays rounds until the engagement terminates
func (s *service) Run(ctx context.Context, battle *Battle) (*outcome.Resolution, error) {
	if battle == nil || battle.Engagement == nil {
		return nil, cmberr.InvalidArgument("battle cannot be nil")
	}
	eng := battle.Engagement

	for eng.IsActive() {
		if _, err := s.PlayRound(ctx, battle); err != nil {
			return nil, err
		}
	}

	if err := s.persist(ctx, eng); err != nil {
		return nil, err
	}
	return s.resolver.Finalize(ctx, eng)
}

// persist writes final health, chakra and win/loss back for every human
func (s *service) persist(ctx context.Context, eng *combat.Engagement) error {
	winner := combat.Side("")
	switch eng.Result {
	case combat.ResultVictory:
		winner = combat.SideAlly
	case combat.ResultDefeat:
		winner = combat.SideEnemy
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, c := range eng.Humans() {
		out := &players.Outcome{Health: c.Health, Chakra: c.Chakra}
		if winner != "" {
			if c.Side == winner {
				out.WinDelta = 1
			} else {
				out.LossDelta = 1
			}
		}
		id := c.ID
		g.Go(func() error {
			return s.players.SaveOutcome(ctx, id, out)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to save outcome",
			zap.String("engagement_id", eng.ID),
			zap.Error(err))
		return cmberr.Wrapf(err, "failed to save outcome for engagement %s", eng.ID)
	}
	return nil
}

// equipped resolves c's technique names against the catalog
func (s *service) equipped(c *combat.Combatant) []*combat.Technique {
	names := c.TechniqueNames()
	out := make([]*combat.Technique, 0, len(names))
	for _, name := range names {
		if t := s.catalog.GetTechnique(name); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (s *service) isEquipped(c *combat.Combatant, technique string) bool {
	for _, name := range c.Techniques {
		if strings.EqualFold(name, technique) {
			return true
		}
	}
	return false
}
