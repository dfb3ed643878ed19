package players

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players/mocks"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient   *redis.Client
	mock         redismock.ClientMock
	repo         Repository
	mockCtrl     *gomock.Controller
	timeProvider *mocks.MockTimeProvider
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mocks.NewMockTimeProvider(s.mockCtrl)
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client:       s.mockClient,
		TimeProvider: s.timeProvider,
	})
	s.now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) storedData() *Data {
	return &Data{
		ID:         "user-1",
		Name:       "Naruto",
		Rank:       "genin",
		Level:      3,
		Power:      25,
		Defense:    12,
		Accuracy:   100,
		Health:     100,
		MaxHealth:  100,
		Chakra:     10,
		MaxChakra:  10,
		Techniques: map[string]string{"slot1": "Shadow Clone"},
		Wins:       4,
		Losses:     1,
		CreatedAt:  s.now.Add(-time.Hour),
		UpdatedAt:  s.now.Add(-time.Hour),
	}
}

func (s *RedisRepoTestSuite) marshal(data *Data) string {
	raw, err := json.Marshal(data)
	s.Require().NoError(err)
	return string(raw)
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	player := fromData(s.storedData())
	expected := toData(player)
	expected.CreatedAt = s.now
	expected.UpdatedAt = s.now

	s.mock.ExpectSetNX("player:user-1", s.marshal(expected), 0).SetVal(true)
	s.mock.ExpectSAdd("players", "user-1").SetVal(1)

	err := s.repo.Create(ctx, player)
	s.NoError(err)
	s.Equal(s.now, player.CreatedAt)
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	player := fromData(s.storedData())
	expected := toData(player)
	expected.CreatedAt = s.now
	expected.UpdatedAt = s.now

	s.mock.ExpectSetNX("player:user-1", s.marshal(expected), 0).SetVal(false)

	err := s.repo.Create(ctx, player)
	s.True(cmberr.Is(err, cmberr.CodeAlreadyExists))
}

func (s *RedisRepoTestSuite) TestCreate_InputValidation() {
	ctx := context.Background()

	s.Error(s.repo.Create(ctx, nil))
	s.True(cmberr.IsInvalidArgument(s.repo.Create(ctx, &Player{})))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	stored := s.storedData()

	// Happy path
	s.mock.ExpectGet("player:user-1").SetVal(s.marshal(stored))

	player, err := s.repo.Get(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("Naruto", player.Name)
	s.Equal(map[string]string{"slot1": "Shadow Clone"}, player.Techniques)
	s.Equal(4, player.Wins)

	// Not found
	s.mock.ExpectGet("player:user-1").RedisNil()

	_, err = s.repo.Get(ctx, "user-1")
	s.True(cmberr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("player:user-1").SetErr(errors.New("redis error"))

	_, err = s.repo.Get(ctx, "user-1")
	s.True(cmberr.IsInternal(err))

	// Input validation
	_, err = s.repo.Get(ctx, "")
	s.True(cmberr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGetMany() {
	ctx := context.Background()
	s.mock.MatchExpectationsInOrder(false)

	first := s.storedData()
	second := s.storedData()
	second.ID = "user-2"
	second.Name = "Sasuke"

	s.mock.ExpectGet("player:user-1").SetVal(s.marshal(first))
	s.mock.ExpectGet("player:user-2").SetVal(s.marshal(second))

	got, err := s.repo.GetMany(ctx, []string{"user-2", "user-1"})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Sasuke", got[0].Name)
	s.Equal("Naruto", got[1].Name)
}

func (s *RedisRepoTestSuite) TestSaveOutcome() {
	ctx := context.Background()
	stored := s.storedData()
	s.timeProvider.EXPECT().Now().Return(s.now)

	expected := s.storedData()
	expected.Health = 0
	expected.Chakra = 10
	expected.Losses = 2
	expected.UpdatedAt = s.now

	s.mock.ExpectGet("player:user-1").SetVal(s.marshal(stored))
	s.mock.ExpectSet("player:user-1", s.marshal(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("players", "user-1").SetVal(1)

	err := s.repo.SaveOutcome(ctx, "user-1", &Outcome{Health: -20, Chakra: 14, LossDelta: 1})
	s.NoError(err)
}

func (s *RedisRepoTestSuite) TestSaveOutcome_WriteFailure() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	expected := s.storedData()
	expected.Health = 50
	expected.Wins = 5
	expected.UpdatedAt = s.now

	s.mock.ExpectGet("player:user-1").SetVal(s.marshal(s.storedData()))
	s.mock.ExpectSet("player:user-1", s.marshal(expected), 0).SetErr(errors.New("connection reset"))

	err := s.repo.SaveOutcome(ctx, "user-1", &Outcome{Health: 50, Chakra: 10, WinDelta: 1})
	s.True(cmberr.IsInternal(err))
}

func (s *RedisRepoTestSuite) TestAddRewards() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	expected := s.storedData()
	expected.Exp = 6.5
	expected.Money = 560
	expected.UpdatedAt = s.now

	s.mock.ExpectGet("player:user-1").SetVal(s.marshal(s.storedData()))
	s.mock.ExpectSet("player:user-1", s.marshal(expected), 0).SetVal("OK")
	s.mock.ExpectSAdd("players", "user-1").SetVal(1)

	s.NoError(s.repo.AddRewards(ctx, "user-1", 6.5, 560))
}
