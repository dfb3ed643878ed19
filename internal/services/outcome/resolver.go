// Package outcome turns a terminated engagement into a resolution and hands
// reward computation to a collaborator
package outcome

//go:generate mockgen -destination=mock/mock_rewards.go -package=mockoutcome -source=resolver.go

import (
	"context"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// Grant is what one combatant received. The engine does not interpret it.
type Grant struct {
	CombatantID string  `json:"combatant_id"`
	Exp         float64 `json:"exp"`
	Money       int     `json:"money"`
}

// RewardInput is everything a reward calculator is given
type RewardInput struct {
	EngagementID string
	Kind         combat.Kind
	Result       combat.Result
	Winners      []*combat.Combatant
	Losers       []*combat.Combatant
	Rounds       int
}

// RewardCalculator computes and credits rewards for a finished engagement
type RewardCalculator interface {
	Calculate(ctx context.Context, input *RewardInput) ([]Grant, error)
}

// Resolution is the final word on an engagement
type Resolution struct {
	EngagementID string              `json:"engagement_id"`
	Result       combat.Result       `json:"result"`
	FledBy       string              `json:"fled_by,omitempty"`
	Rounds       int                 `json:"rounds"`
	Survivors    []*combat.Combatant `json:"survivors"`
	Winners      []*combat.Combatant `json:"winners,omitempty"`
	Losers       []*combat.Combatant `json:"losers,omitempty"`
	Rewards      []Grant             `json:"rewards,omitempty"`
}

// ResolverConfig holds dependencies for the resolver
type ResolverConfig struct {
	Rewards RewardCalculator
	Logger  *zap.Logger
}

// Resolver finalizes terminated engagements
type Resolver struct {
	rewards RewardCalculator
	logger  *zap.Logger
}

// NewResolver creates a new resolver. Rewards is optional.
func NewResolver(cfg *ResolverConfig) *Resolver {
	if cfg == nil {
		cfg = &ResolverConfig{}
	}
	return &Resolver{
		rewards: cfg.Rewards,
		logger:  logging.OrNop(cfg.Logger),
	}
}

// Resolve is a pure read of a terminated engagement
func Resolve(eng *combat.Engagement) *Resolution {
	res := &Resolution{
		EngagementID: eng.ID,
		Result:       eng.Result,
		FledBy:       eng.FledBy,
		Rounds:       roundsElapsed(eng),
	}

	for _, c := range eng.Combatants {
		if c.IsAlive() {
			res.Survivors = append(res.Survivors, c)
		}
	}

	switch eng.Result {
	case combat.ResultVictory:
		res.Winners = eng.Side(combat.SideAlly)
		res.Losers = eng.Side(combat.SideEnemy)
	case combat.ResultDefeat:
		res.Winners = eng.Side(combat.SideEnemy)
		res.Losers = eng.Side(combat.SideAlly)
	}
	return res
}

// Finalize resolves eng and, when there is a winner, asks for rewards
func (r *Resolver) Finalize(ctx context.Context, eng *combat.Engagement) (*Resolution, error) {
	if eng == nil {
		return nil, cmberr.InvalidArgument("engagement cannot be nil")
	}
	if eng.IsActive() {
		return nil, cmberr.InvalidArgumentf("engagement %s is still active", eng.ID)
	}

	res := Resolve(eng)
	if r.rewards == nil || len(res.Winners) == 0 {
		return res, nil
	}

	grants, err := r.rewards.Calculate(ctx, &RewardInput{
		EngagementID: eng.ID,
		Kind:         eng.Kind,
		Result:       res.Result,
		Winners:      res.Winners,
		Losers:       res.Losers,
		Rounds:       res.Rounds,
	})
	if err != nil {
		return nil, cmberr.Wrapf(err, "failed to grant rewards for engagement %s", eng.ID)
	}
	res.Rewards = grants

	r.logger.Info("engagement resolved",
		zap.String("engagement_id", eng.ID),
		zap.String("result", string(res.Result)),
		zap.Int("rounds", res.Rounds),
		zap.Int("grants", len(grants)))
	return res, nil
}

// roundsElapsed counts completed rounds. A flee ends the round before upkeep.
func roundsElapsed(eng *combat.Engagement) int {
	if eng.Result == combat.ResultFled {
		return eng.Round
	}
	return eng.Round - 1
}
