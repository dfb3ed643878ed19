package outcome_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
	mockoutcome "github.com/KirkDiggler/shinobi-bot/internal/services/outcome/mock"
)

func finished(result combat.Result) *combat.Engagement {
	eng := combat.NewEngagement("eng-1", combat.KindMission, []*combat.Combatant{
		{ID: "p1", Name: "Naruto", Side: combat.SideAlly, Human: true, Health: 40, MaxHealth: 100},
		{ID: "npc-1", Name: "Rogue Ninja", Side: combat.SideEnemy, Health: 0, MaxHealth: 80},
	})
	eng.Round = 4
	eng.Terminate(result)
	return eng
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		result      combat.Result
		wantWinners []string
		wantRounds  int
	}{
		{name: "victory", result: combat.ResultVictory, wantWinners: []string{"p1"}, wantRounds: 3},
		{name: "defeat", result: combat.ResultDefeat, wantWinners: []string{"npc-1"}, wantRounds: 3},
		{name: "draw", result: combat.ResultDraw, wantRounds: 3},
		{name: "fled", result: combat.ResultFled, wantRounds: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := outcome.Resolve(finished(tt.result))

			var winners []string
			for _, c := range res.Winners {
				winners = append(winners, c.ID)
			}
			assert.Equal(t, tt.wantWinners, winners)
			assert.Equal(t, tt.result, res.Result)
			assert.Equal(t, tt.wantRounds, res.Rounds)
			require.Len(t, res.Survivors, 1)
			assert.Equal(t, "p1", res.Survivors[0].ID)
		})
	}
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()

	t.Run("grants rewards to winners", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mockoutcome.NewMockRewardCalculator(ctrl)
		resolver := outcome.NewResolver(&outcome.ResolverConfig{Rewards: calc})

		calc.EXPECT().
			Calculate(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, in *outcome.RewardInput) ([]outcome.Grant, error) {
				assert.Equal(t, combat.ResultVictory, in.Result)
				assert.Equal(t, 3, in.Rounds)
				return []outcome.Grant{{CombatantID: "p1", Exp: 6, Money: 540}}, nil
			})

		res, err := resolver.Finalize(ctx, finished(combat.ResultVictory))
		require.NoError(t, err)
		assert.Len(t, res.Rewards, 1)
	})

	t.Run("no winners, no rewards", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mockoutcome.NewMockRewardCalculator(ctrl)
		resolver := outcome.NewResolver(&outcome.ResolverConfig{Rewards: calc})

		res, err := resolver.Finalize(ctx, finished(combat.ResultFled))
		require.NoError(t, err)
		assert.Empty(t, res.Rewards)
	})

	t.Run("reward failure surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		calc := mockoutcome.NewMockRewardCalculator(ctrl)
		resolver := outcome.NewResolver(&outcome.ResolverConfig{Rewards: calc})

		calc.EXPECT().Calculate(ctx, gomock.Any()).Return(nil, cmberr.Internal("store down"))

		_, err := resolver.Finalize(ctx, finished(combat.ResultVictory))
		assert.True(t, cmberr.IsInternal(err))
	})

	t.Run("active engagement", func(t *testing.T) {
		eng := combat.NewEngagement("eng-2", combat.KindDuel, nil)
		_, err := outcome.NewResolver(nil).Finalize(ctx, eng)
		assert.True(t, cmberr.IsInvalidArgument(err))
	})
}
