package players

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players/migrations"
)

// uniqueViolation is the SQLSTATE for a duplicate primary key
const uniqueViolation = "23505"

const selectPlayer = `
	SELECT p.id, p.name, p.rank, p.level,
	       p.power, p.defense, p.accuracy, p.dodge,
	       p.health, p.max_health, p.chakra, p.max_chakra,
	       p.techniques, p.combo,
	       COALESCE(r.wins, 0), COALESCE(r.losses, 0), COALESCE(r.exp, 0), COALESCE(r.money, 0),
	       p.created_at, p.updated_at
	FROM players p
	LEFT JOIN player_records r ON r.player_id = p.id
`

type postgresRepo struct {
	db           *pgxpool.Pool
	timeProvider TimeProvider
}

// PostgresRepoConfig holds dependencies for the Postgres repository
type PostgresRepoConfig struct {
	Pool         *pgxpool.Pool
	TimeProvider TimeProvider
}

// NewPostgresRepository creates a new Postgres-backed player repository
func NewPostgresRepository(cfg *PostgresRepoConfig) Repository {
	if cfg == nil || cfg.Pool == nil {
		panic("postgres pool is required")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = NewTimeProvider()
	}

	return &postgresRepo{
		db:           cfg.Pool,
		timeProvider: timeProvider,
	}
}

// Connect opens a pool and verifies it with a ping
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*Player, error) {
	if id == "" {
		return nil, cmberr.InvalidArgument("player id is required")
	}

	player, err := scanPlayer(r.db.QueryRow(ctx, selectPlayer+" WHERE p.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cmberr.NotFoundf("player %s not found", id).WithMeta("player_id", id)
	}
	if err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to query player").
			WithMeta("player_id", id)
	}

	return player, nil
}

func (r *postgresRepo) GetMany(ctx context.Context, ids []string) ([]*Player, error) {
	rows, err := r.db.Query(ctx, selectPlayer+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to query players")
	}
	defer rows.Close()

	byID := make(map[string]*Player, len(ids))
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to scan player")
		}
		byID[player.ID] = player
	}
	if err := rows.Err(); err != nil {
		return nil, cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to iterate players")
	}

	out := make([]*Player, len(ids))
	for i, id := range ids {
		player, ok := byID[id]
		if !ok {
			return nil, cmberr.NotFoundf("player %s not found", id).WithMeta("player_id", id)
		}
		out[i] = player
	}
	return out, nil
}

func (r *postgresRepo) Create(ctx context.Context, player *Player) error {
	if player == nil {
		return cmberr.InvalidArgument("player cannot be nil")
	}
	if player.ID == "" {
		return cmberr.InvalidArgument("player id is required")
	}

	now := r.timeProvider.Now()
	player.CreatedAt = now
	player.UpdatedAt = now

	techniques := player.Techniques
	if techniques == nil {
		techniques = map[string]string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO players (id, name, rank, level, power, defense, accuracy, dodge,
		                     health, max_health, chakra, max_chakra, techniques, combo,
		                     created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, player.ID, player.Name, player.Rank, player.Level,
		player.Power, player.Defense, player.Accuracy, player.Dodge,
		player.Health, player.MaxHealth, player.Chakra, player.MaxChakra,
		techniques, player.Combo, player.CreatedAt, player.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return cmberr.AlreadyExistsf("player %s already exists", player.ID)
		}
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to insert player").
			WithMeta("player_id", player.ID)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO player_records (player_id, wins, losses, exp, money)
		VALUES ($1, $2, $3, $4, $5)
	`, player.ID, player.Wins, player.Losses, player.Exp, player.Money)
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to insert player record").
			WithMeta("player_id", player.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to commit player")
	}
	return nil
}

func (r *postgresRepo) SaveOutcome(ctx context.Context, id string, outcome *Outcome) error {
	if outcome == nil {
		return cmberr.InvalidArgument("outcome cannot be nil")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE players
		SET health = LEAST(GREATEST($2, 0), max_health),
		    chakra = LEAST(GREATEST($3, 0), max_chakra),
		    updated_at = $4
		WHERE id = $1
	`, id, outcome.Health, outcome.Chakra, r.timeProvider.Now())
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to update player").
			WithMeta("player_id", id)
	}
	if tag.RowsAffected() == 0 {
		return cmberr.NotFoundf("player %s not found", id)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO player_records (player_id, wins, losses)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE
		SET wins = player_records.wins + EXCLUDED.wins,
		    losses = player_records.losses + EXCLUDED.losses
	`, id, outcome.WinDelta, outcome.LossDelta)
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to update player record").
			WithMeta("player_id", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to commit outcome")
	}
	return nil
}

func (r *postgresRepo) AddRewards(ctx context.Context, id string, exp float64, money int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE player_records
		SET exp = exp + $2, money = money + $3
		WHERE player_id = $1
	`, id, exp, money)
	if err != nil {
		return cmberr.WrapWithCode(err, cmberr.CodeInternal, "failed to add rewards").
			WithMeta("player_id", id)
	}
	if tag.RowsAffected() == 0 {
		return cmberr.NotFoundf("player %s not found", id)
	}
	return nil
}

func scanPlayer(row pgx.Row) (*Player, error) {
	p := &Player{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Rank, &p.Level,
		&p.Power, &p.Defense, &p.Accuracy, &p.Dodge,
		&p.Health, &p.MaxHealth, &p.Chakra, &p.MaxChakra,
		&p.Techniques, &p.Combo,
		&p.Wins, &p.Losses, &p.Exp, &p.Money,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
