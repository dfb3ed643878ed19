package players

import (
	"context"
	"maps"
	"sync"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

type inMemoryRepository struct {
	mu           sync.RWMutex
	players      map[string]*Data
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a repository that lives only as long as the process
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		players:      make(map[string]*Data),
		timeProvider: NewTimeProvider(),
	}
}

func (r *inMemoryRepository) Get(ctx context.Context, id string) (*Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, ok := r.players[id]
	if !ok {
		return nil, cmberr.NotFoundf("player %s not found", id).WithMeta("player_id", id)
	}

	// hand out a copy so callers can't mutate the stored record
	player := fromData(data)
	player.Techniques = maps.Clone(data.Techniques)
	return player, nil
}

func (r *inMemoryRepository) GetMany(ctx context.Context, ids []string) ([]*Player, error) {
	out := make([]*Player, 0, len(ids))
	for _, id := range ids {
		player, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, player)
	}
	return out, nil
}

func (r *inMemoryRepository) Create(ctx context.Context, player *Player) error {
	if player == nil {
		return cmberr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return cmberr.InvalidArgument("player id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[player.ID]; exists {
		return cmberr.AlreadyExistsf("player %s already exists", player.ID)
	}

	now := r.timeProvider.Now()
	player.CreatedAt = now
	player.UpdatedAt = now

	data := toData(player)
	data.Techniques = maps.Clone(player.Techniques)
	r.players[player.ID] = data
	return nil
}

func (r *inMemoryRepository) SaveOutcome(ctx context.Context, id string, outcome *Outcome) error {
	if outcome == nil {
		return cmberr.InvalidArgument("outcome cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.players[id]
	if !ok {
		return cmberr.NotFoundf("player %s not found", id)
	}

	applyOutcome(data, outcome)
	data.UpdatedAt = r.timeProvider.Now()
	return nil
}

func (r *inMemoryRepository) AddRewards(ctx context.Context, id string, exp float64, money int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.players[id]
	if !ok {
		return cmberr.NotFoundf("player %s not found", id)
	}

	data.Exp += exp
	data.Money += money
	data.UpdatedAt = r.timeProvider.Now()
	return nil
}
