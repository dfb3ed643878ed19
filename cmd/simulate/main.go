package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/config"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
)

const playerID = "cli"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	// Parse command line arguments
	catalogPath := flag.String("catalog", "data/catalog.yaml", "Catalog file to load")
	enemy := flag.String("enemy", "", "Enemy to fight (defaults to the first in the catalog)")
	techniques := flag.String("techniques", "", "Comma separated techniques to equip")
	auto := flag.Bool("auto", false, "Pick the first affordable technique every round")
	verbose := flag.Bool("v", false, "Log engine internals")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	techs, err := catalog.LoadFile(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if *enemy == "" {
		enemies := techs.ListEnemies()
		if len(enemies) == 0 {
			log.Fatal("Catalog has no enemies")
		}
		*enemy = enemies[0].Name
	}

	cfg, err := config.LoadFrom(map[string]string{"DISCORD_TOKEN": "unused", "PLAYER_STORE": config.StoreMemory})
	if err != nil {
		log.Fatalf("Failed to load defaults: %v", err)
	}
	rules := engagement.RulesFromConfig(cfg.Combat)

	store := players.NewInMemoryRepository()
	ctx := context.Background()
	if err := store.Create(ctx, recruit(*techniques)); err != nil {
		log.Fatalf("Failed to create player: %v", err)
	}

	var prompter engagement.Prompter = newTerminalPrompter(os.Stdin)
	if *auto {
		prompter = autoPrompter{}
	}

	provider := services.NewProvider(&services.ProviderConfig{
		PlayerRepository:  store,
		CatalogRepository: techs,
		Prompter:          prompter,
		Observer:          &printer{},
		Rules:             &rules,
		DrainAmount:       cfg.Combat.DrainAmount,
		Logger:            logger,
	})

	battle, err := provider.EngagementService.Start(ctx, &engagement.Config{
		Kind:    combat.KindMission,
		Allies:  []engagement.Participant{{PlayerID: playerID}},
		Enemies: []engagement.Participant{{Enemy: *enemy}},
	})
	if err != nil {
		log.Fatalf("Failed to start battle: %v", err)
	}

	fmt.Printf("=== %s vs %s ===\n", battle.Engagement.Combatants[0].Name, *enemy)
	res, err := provider.EngagementService.Run(ctx, battle)
	if err != nil {
		logger.Error("battle failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("\n=== Result: %s after %d round(s) ===\n", res.Result, res.Rounds)
	for _, g := range res.Rewards {
		fmt.Printf("  %s: +%.2f exp, +%d ryo\n", g.CombatantID, g.Exp, g.Money)
	}
}

func recruit(techniques string) *players.Player {
	p := &players.Player{
		ID:         playerID,
		Name:       "You",
		Rank:       "genin",
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
	for i, name := range strings.Split(techniques, ",") {
		if name = strings.TrimSpace(name); name != "" {
			p.Techniques[fmt.Sprintf("slot%d", i+1)] = name
		}
	}
	return p
}

// printer writes each round to stdout
type printer struct{}

func (*printer) RoundResolved(_ context.Context, _ *combat.Engagement, summary *combat.RoundSummary) {
	fmt.Printf("\n--- Round %d ---\n", summary.Round)
	for _, tick := range summary.Ticks {
		fmt.Printf("  %s takes %d from %s\n", tick.CombatantID, tick.Damage, tick.Status)
	}
	for _, out := range summary.Outcomes {
		fmt.Printf("  %s", out.Description)
		if out.Damage > 0 {
			fmt.Printf(" (%d damage)", out.Damage)
		}
		fmt.Println()
		for _, note := range out.Notes {
			fmt.Printf("    - %s\n", note)
		}
	}
	for _, c := range summary.Combatants {
		fmt.Printf("  %-20s %3d/%-3d hp  %2d/%-2d chakra %v\n", c.Name, c.Health, c.MaxHealth, c.Chakra, c.MaxChakra, c.Statuses)
	}
}

// terminalPrompter reads choices from a line-oriented reader
type terminalPrompter struct {
	lines chan string
}

func newTerminalPrompter(f *os.File) *terminalPrompter {
	p := &terminalPrompter{lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
		close(p.lines)
	}()
	return p
}

func (p *terminalPrompter) RequestAction(ctx context.Context, req *engagement.ActionRequest) (*combat.Action, error) {
	fmt.Printf("\nRound %d: choose your move (before %s)\n", req.Round, req.Deadline.Format("15:04:05"))
	for i, t := range req.Techniques {
		mark := " "
		if !t.Affordable {
			mark = "x"
		}
		fmt.Printf("  [%d]%s %s (cost %d)\n", i+1, mark, t.Name, t.Cost)
	}
	fmt.Println("  [f]  focus    [r]  run")

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println("\ntoo slow!")
			return nil, ctx.Err()
		case line, ok := <-p.lines:
			if !ok {
				return &combat.Action{CombatantID: req.Combatant.ID, Kind: combat.ActionFlee}, nil
			}
			if action := parseChoice(req, strings.TrimSpace(line)); action != nil {
				return action, nil
			}
			fmt.Println("invalid choice")
		}
	}
}

func parseChoice(req *engagement.ActionRequest, line string) *combat.Action {
	action := &combat.Action{CombatantID: req.Combatant.ID}
	switch line {
	case "f":
		action.Kind = combat.ActionFocus
		return action
	case "r":
		action.Kind = combat.ActionFlee
		return action
	}

	idx, err := strconv.Atoi(line)
	if err != nil || idx < 1 || idx > len(req.Techniques) || !req.Techniques[idx-1].Affordable {
		return nil
	}
	action.Kind = combat.ActionTechnique
	action.Technique = req.Techniques[idx-1].Name
	if len(req.Targets) > 0 {
		action.TargetID = req.Targets[0].ID
	}
	return action
}

// autoPrompter plays the first affordable technique, or focuses
type autoPrompter struct{}

func (autoPrompter) RequestAction(_ context.Context, req *engagement.ActionRequest) (*combat.Action, error) {
	for i, t := range req.Techniques {
		if t.Affordable {
			return parseChoice(req, strconv.Itoa(i+1)), nil
		}
	}
	return &combat.Action{CombatantID: req.Combatant.ID, Kind: combat.ActionFocus}, nil
}
