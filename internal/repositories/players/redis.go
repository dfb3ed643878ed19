package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

const indexKey = "players"

// Data is the serialized form of a player in Redis
type Data struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Rank       string            `json:"rank"`
	Level      int               `json:"level"`
	Power      float64           `json:"power"`
	Defense    float64           `json:"defense"`
	Accuracy   float64           `json:"accuracy"`
	Dodge      float64           `json:"dodge"`
	Health     int               `json:"health"`
	MaxHealth  int               `json:"max_health"`
	Chakra     int               `json:"chakra"`
	MaxChakra  int               `json:"max_chakra"`
	Techniques map[string]string `json:"techniques"`
	Combo      string            `json:"combo,omitempty"`
	Wins       int               `json:"wins"`
	Losses     int               `json:"losses"`
	Exp        float64           `json:"exp"`
	Money      int               `json:"money"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type redisRepo struct {
	client       redis.UniversalClient
	timeProvider TimeProvider
}

// RedisRepoConfig holds dependencies for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider TimeProvider
}

// NewRedisRepository creates a new Redis-backed player repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("redis client is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = NewTimeProvider()
	}

	return &redisRepo{
		client:       cfg.Client,
		timeProvider: timeProvider,
	}
}

// NewRedis creates a Redis-backed player repository using the wall clock
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

func playerKey(id string) string {
	return fmt.Sprintf("player:%s", id)
}

func (r *redisRepo) set(ctx context.Context, data *Data) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return cmberr.Wrap(err, "failed to marshal player data")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, playerKey(data.ID), string(jsonData), 0)
	pipe.SAdd(ctx, indexKey, data.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to save player in redis").
			WithMeta("player_id", data.ID)
	}

	return nil
}

func (r *redisRepo) get(ctx context.Context, id string) (*Data, error) {
	if id == "" {
		return nil, cmberr.InvalidArgument("player id is required")
	}

	jsonData, err := r.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cmberr.NotFoundf("player %s not found", id).WithMeta("player_id", id)
		}
		return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to get player from redis").
			WithMeta("player_id", id)
	}

	var data Data
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to unmarshal player data")
	}

	return &data, nil
}

func (r *redisRepo) Get(ctx context.Context, id string) (*Player, error) {
	data, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromData(data), nil
}

func (r *redisRepo) GetMany(ctx context.Context, ids []string) ([]*Player, error) {
	out := make([]*Player, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			player, err := r.Get(ctx, id)
			if err != nil {
				return err
			}
			out[i] = player
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *redisRepo) Create(ctx context.Context, player *Player) error {
	if player == nil {
		return cmberr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return cmberr.InvalidArgument("player id is required")
	}

	now := r.timeProvider.Now()
	player.CreatedAt = now
	player.UpdatedAt = now

	jsonData, err := json.Marshal(toData(player))
	if err != nil {
		return cmberr.Wrap(err, "failed to marshal player data")
	}

	created, err := r.client.SetNX(ctx, playerKey(player.ID), string(jsonData), 0).Result()
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to create player in redis").
			WithMeta("player_id", player.ID)
	}
	if !created {
		return cmberr.AlreadyExistsf("player %s already exists", player.ID)
	}

	if err := r.client.SAdd(ctx, indexKey, player.ID).Err(); err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to index player in redis").
			WithMeta("player_id", player.ID)
	}
	return nil
}

func (r *redisRepo) SaveOutcome(ctx context.Context, id string, outcome *Outcome) error {
	if outcome == nil {
		return cmberr.InvalidArgument("outcome cannot be nil")
	}

	data, err := r.get(ctx, id)
	if err != nil {
		return err
	}

	applyOutcome(data, outcome)
	data.UpdatedAt = r.timeProvider.Now()

	return r.set(ctx, data)
}

func (r *redisRepo) AddRewards(ctx context.Context, id string, exp float64, money int) error {
	data, err := r.get(ctx, id)
	if err != nil {
		return err
	}

	data.Exp += exp
	data.Money += money
	data.UpdatedAt = r.timeProvider.Now()

	return r.set(ctx, data)
}

func applyOutcome(data *Data, outcome *Outcome) {
	data.Health = clamp(outcome.Health, 0, data.MaxHealth)
	data.Chakra = clamp(outcome.Chakra, 0, data.MaxChakra)
	data.Wins += outcome.WinDelta
	data.Losses += outcome.LossDelta
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func toData(p *Player) *Data {
	return &Data{
		ID:         p.ID,
		Name:       p.Name,
		Rank:       p.Rank,
		Level:      p.Level,
		Power:      p.Power,
		Defense:    p.Defense,
		Accuracy:   p.Accuracy,
		Dodge:      p.Dodge,
		Health:     p.Health,
		MaxHealth:  p.MaxHealth,
		Chakra:     p.Chakra,
		MaxChakra:  p.MaxChakra,
		Techniques: p.Techniques,
		Combo:      p.Combo,
		Wins:       p.Wins,
		Losses:     p.Losses,
		Exp:        p.Exp,
		Money:      p.Money,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromData(d *Data) *Player {
	return &Player{
		ID:         d.ID,
		Name:       d.Name,
		Rank:       d.Rank,
		Level:      d.Level,
		Power:      d.Power,
		Defense:    d.Defense,
		Accuracy:   d.Accuracy,
		Dodge:      d.Dodge,
		Health:     d.Health,
		MaxHealth:  d.MaxHealth,
		Chakra:     d.Chakra,
		MaxChakra:  d.MaxChakra,
		Techniques: d.Techniques,
		Combo:      d.Combo,
		Wins:       d.Wins,
		Losses:     d.Losses,
		Exp:        d.Exp,
		Money:      d.Money,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
