package services

import (
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/combos"
	"github.com/KirkDiggler/shinobi-bot/internal/conditions"
	"github.com/KirkDiggler/shinobi-bot/internal/dice"
	"github.com/KirkDiggler/shinobi-bot/internal/effects"
	"github.com/KirkDiggler/shinobi-bot/internal/formula"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
	"github.com/KirkDiggler/shinobi-bot/internal/services/rewards"
	"github.com/KirkDiggler/shinobi-bot/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	EngagementService engagement.Service
	RewardCalculator  outcome.RewardCalculator
	Resolver          *outcome.Resolver
	Pipeline          *effects.Pipeline
	Tracker           *combos.Tracker
	Ledger            *conditions.Ledger
	Evaluator         *formula.Evaluator
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	PlayerRepository  players.Repository
	CatalogRepository catalog.Repository
	Prompter          engagement.Prompter
	Observer          engagement.Observer
	Roller            dice.Roller
	UUIDGenerator     uuid.Generator
	Rules             *engagement.Rules
	DrainAmount       int
	Logger            *zap.Logger
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	logger := logging.OrNop(cfg.Logger)

	// Use in-memory repository if none provided
	playerRepo := cfg.PlayerRepository
	if playerRepo == nil {
		playerRepo = players.NewInMemoryRepository()
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	evaluator := formula.NewEvaluator(&formula.EvaluatorConfig{Logger: logger.Named("formula")})
	ledger := conditions.NewLedger(&conditions.LedgerConfig{
		Logger:      logger.Named("conditions"),
		DrainAmount: cfg.DrainAmount,
	})
	pipeline := effects.NewPipeline(&effects.PipelineConfig{
		Catalog:   cfg.CatalogRepository,
		Evaluator: evaluator,
		Ledger:    ledger,
		Roller:    roller,
		Logger:    logger.Named("effects"),
	})
	tracker := combos.NewTracker(&combos.TrackerConfig{
		Pipeline:  pipeline,
		Evaluator: evaluator,
		Logger:    logger.Named("combos"),
	})

	rewardCalc := rewards.NewService(&rewards.ServiceConfig{
		Players: playerRepo,
		Roller:  roller,
		Logger:  logger.Named("rewards"),
	})
	resolver := outcome.NewResolver(&outcome.ResolverConfig{
		Rewards: rewardCalc,
		Logger:  logger.Named("outcome"),
	})

	engagementSvc := engagement.NewService(&engagement.ServiceConfig{
		Players:       playerRepo,
		Catalog:       cfg.CatalogRepository,
		Prompter:      cfg.Prompter,
		Pipeline:      pipeline,
		Tracker:       tracker,
		Ledger:        ledger,
		Resolver:      resolver,
		Observer:      cfg.Observer,
		Roller:        roller,
		UUIDGenerator: cfg.UUIDGenerator,
		Rules:         cfg.Rules,
		Logger:        logger.Named("engagement"),
	})

	return &Provider{
		EngagementService: engagementSvc,
		RewardCalculator:  rewardCalc,
		Resolver:          resolver,
		Pipeline:          pipeline,
		Tracker:           tracker,
		Ledger:            ledger,
		Evaluator:         evaluator,
	}
}
