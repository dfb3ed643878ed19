// Package rewards is the default experience and money collaborator
package rewards

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/shinobi-bot/internal/dice"
	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
)

const (
	// BaseExp plus up to ExpSpread is granted per win
	BaseExp   = 5.0
	ExpSpread = 3.0

	BaseMoney     = 500
	MoneyPerLevel = 20

	// QuickRounds or fewer earns QuickBonus extra exp
	QuickRounds = 3
	QuickBonus  = 1.0
)

// kindScale multiplies money for harder engagement kinds
var kindScale = map[combat.Kind]float64{
	combat.KindMission: 1,
	combat.KindBoss:    2,
	combat.KindRaid:    1.5,
	combat.KindTrial:   1.5,
	combat.KindDuel:    1,
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Players players.Repository
	Roller  dice.Roller
	Logger  *zap.Logger
}

type service struct {
	players players.Repository
	roller  dice.Roller
	logger  *zap.Logger
}

// NewService creates a reward calculator that credits human winners
func NewService(cfg *ServiceConfig) outcome.RewardCalculator {
	if cfg == nil || cfg.Players == nil {
		panic("player repository is required")
	}

	roller := cfg.Roller
	if roller == nil {
		roller = dice.NewRandomRoller()
	}

	return &service{
		players: cfg.Players,
		roller:  roller,
		logger:  logging.OrNop(cfg.Logger),
	}
}

// Calculate grants every human winner experience and money and persists it
func (s *service) Calculate(ctx context.Context, input *outcome.RewardInput) ([]outcome.Grant, error) {
	if input == nil {
		return nil, cmberr.InvalidArgument("input cannot be nil")
	}

	var humans []*combat.Combatant
	for _, c := range input.Winners {
		if c.Human {
			humans = append(humans, c)
		}
	}

	// roll up front so the roller is never shared across goroutines
	grants := make([]outcome.Grant, len(humans))
	for i, c := range humans {
		grants[i] = outcome.Grant{
			CombatantID: c.ID,
			Exp:         s.exp(input.Rounds),
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range grants {
		grant := &grants[i]
		g.Go(func() error {
			player, err := s.players.Get(ctx, grant.CombatantID)
			if err != nil {
				return err
			}
			grant.Money = money(player.Level, input.Kind)
			return s.players.AddRewards(ctx, grant.CombatantID, grant.Exp, grant.Money)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, grant := range grants {
		s.logger.Info("rewards granted",
			zap.String("engagement_id", input.EngagementID),
			zap.String("player_id", grant.CombatantID),
			zap.Float64("exp", grant.Exp),
			zap.Int("money", grant.Money))
	}
	return grants, nil
}

func (s *service) exp(rounds int) float64 {
	exp := BaseExp + ExpSpread*s.roller.Percent()/100
	if rounds > 0 && rounds <= QuickRounds {
		exp += QuickBonus
	}
	return exp
}

func money(level int, kind combat.Kind) int {
	scale, ok := kindScale[kind]
	if !ok {
		scale = 1
	}
	return int(float64(BaseMoney+level*MoneyPerLevel) * scale)
}
