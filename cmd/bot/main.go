package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/config"
	"github.com/KirkDiggler/shinobi-bot/internal/events"
	"github.com/KirkDiggler/shinobi-bot/internal/handlers/discord"
	"github.com/KirkDiggler/shinobi-bot/internal/handlers/discord/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("bot exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	techniques, err := catalog.LoadFile(cfg.Combat.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("loaded catalog",
		zap.String("path", cfg.Combat.CatalogPath),
		zap.Int("enemies", len(techniques.ListEnemies())))

	playerRepo, closeStore, err := openPlayerStore(cfg.Store, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	prompter := combat.NewPrompter(&combat.PrompterConfig{
		Session: dg,
		Logger:  logger.Named("prompter"),
	})

	bus := events.NewBus(logger.Named("events"))
	bus.Subscribe(events.EventTypeRoundResolved, combat.NewPresenter(dg, logger.Named("presenter")))
	bus.Subscribe(events.EventTypeRoundResolved, events.NewRoundLogger(logger))
	bus.Subscribe(events.EventTypeEngagementFinished, events.NewRoundLogger(logger))

	rules := engagement.RulesFromConfig(cfg.Combat)
	serviceProvider := services.NewProvider(&services.ProviderConfig{
		PlayerRepository:  playerRepo,
		CatalogRepository: techniques,
		Prompter:          prompter,
		Observer:          events.NewObserver(bus),
		Rules:             &rules,
		DrainAmount:       cfg.Combat.DrainAmount,
		Logger:            logger,
	})

	handler := discord.NewHandler(&discord.HandlerConfig{
		CombatHandler: combat.NewHandler(&combat.HandlerConfig{
			Session:  dg,
			Service:  serviceProvider.EngagementService,
			Catalog:  techniques,
			Players:  playerRepo,
			Prompter: prompter,
			Logger:   logger.Named("discord"),
		}),
		Logger: logger.Named("discord"),
	})

	// Register interaction handler
	dg.AddHandler(handler.HandleInteraction)

	// Open connection to Discord
	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	defer func() {
		if clientErr := dg.Close(); clientErr != nil {
			logger.Warn("failed to close Discord connection", zap.Error(clientErr))
		}
	}()

	// Use empty string for global commands, or set a specific guild ID for testing
	if err := handler.RegisterCommands(dg, cfg.Discord.GuildID); err != nil {
		return err
	}

	logger.Info("bot is now running, press CTRL-C to exit")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("shutting down, waiting for running battles")
	handler.Shutdown()
	return nil
}

// openPlayerStore connects the configured backend and returns its cleanup func
func openPlayerStore(cfg config.StoreConfig, logger *zap.Logger) (players.Repository, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Backend {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Info("using Redis for persistence", zap.String("addr", opts.Addr))

		return players.NewRedis(client), func() {
			if err := client.Close(); err != nil {
				logger.Warn("error closing Redis connection", zap.Error(err))
			}
		}, nil

	case config.StorePostgres:
		pool, err := players.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := players.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("using Postgres for persistence")

		return players.NewPostgresRepository(&players.PostgresRepoConfig{Pool: pool}), pool.Close, nil
	}

	logger.Warn("using in-memory player store, records are lost on restart")
	return players.NewInMemoryRepository(), func() {}, nil
}
