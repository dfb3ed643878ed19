package players_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	"github.com/KirkDiggler/shinobi-bot/internal/testutils"
)

func newPlayer(id string) *players.Player {
	return testutils.NewTestPlayer(id, "Sakura")
}

func TestInMemory_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := players.NewInMemoryRepository()

	require.NoError(t, repo.Create(ctx, newPlayer("p1")))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Sakura", got.Name)
	assert.False(t, got.CreatedAt.IsZero())

	got.Techniques["slot1"] = "changed"
	again, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Mystical Palm", again.Techniques["slot1"], "stored record is not aliased")

	err = repo.Create(ctx, newPlayer("p1"))
	assert.True(t, cmberr.Is(err, cmberr.CodeAlreadyExists))

	_, err = repo.Get(ctx, "missing")
	assert.True(t, cmberr.IsNotFound(err))
}

func TestInMemory_SaveOutcome(t *testing.T) {
	ctx := context.Background()
	repo := players.NewInMemoryRepository()
	require.NoError(t, repo.Create(ctx, newPlayer("p1")))

	require.NoError(t, repo.SaveOutcome(ctx, "p1", &players.Outcome{Health: 140, Chakra: -3, WinDelta: 1}))
	require.NoError(t, repo.AddRewards(ctx, "p1", 5.5, 520))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Health)
	assert.Equal(t, 0, got.Chakra)
	assert.Equal(t, 1, got.Wins)
	assert.Equal(t, 5.5, got.Exp)
	assert.Equal(t, 520, got.Money)

	assert.True(t, cmberr.IsNotFound(repo.SaveOutcome(ctx, "missing", &players.Outcome{})))
	assert.True(t, cmberr.IsInvalidArgument(repo.SaveOutcome(ctx, "p1", nil)))
}

func TestInMemory_GetMany(t *testing.T) {
	ctx := context.Background()
	repo := players.NewInMemoryRepository()
	require.NoError(t, repo.Create(ctx, newPlayer("p1")))
	require.NoError(t, repo.Create(ctx, newPlayer("p2")))

	got, err := repo.GetMany(ctx, []string{"p2", "p1"})
	require.NoError(t, err)
	assert.Equal(t, "p2", got[0].ID)
	assert.Equal(t, "p1", got[1].ID)

	_, err = repo.GetMany(ctx, []string{"p1", "p3"})
	assert.True(t, cmberr.IsNotFound(err))
}
