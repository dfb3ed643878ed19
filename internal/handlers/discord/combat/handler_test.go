package combat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog"
	"github.com/KirkDiggler/shinobi-bot/internal/repositories/players"
	mockcatalog "github.com/KirkDiggler/shinobi-bot/internal/repositories/catalog/mock"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
	mockengagement "github.com/KirkDiggler/shinobi-bot/internal/services/engagement/mock"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	session *fakeSession
	service *mockengagement.MockService
	catalog *mockcatalog.MockRepository
	players players.Repository
	handler *Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.session = newFakeSession()
	s.service = mockengagement.NewMockService(s.ctrl)
	s.catalog = mockcatalog.NewMockRepository(s.ctrl)
	s.players = players.NewInMemoryRepository()
	s.handler = NewHandler(&HandlerConfig{
		Session:  s.session,
		Service:  s.service,
		Catalog:  s.catalog,
		Players:  s.players,
		Prompter: NewPrompter(&PrompterConfig{Session: s.session}),
	})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.handler.Wait()
	s.ctrl.Finish()
}

func command(userID, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan-1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID, Username: userID}},
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func battleFor(cfg *engagement.Config) *engagement.Battle {
	eng := combat.NewEngagement("eng-1", cfg.Kind, []*combat.Combatant{
		{ID: "p1", Name: "Naruto", Side: combat.SideAlly, Human: true, Health: 100, MaxHealth: 100},
		{ID: "npc-1", Name: "Dummy", Side: combat.SideEnemy, Health: 100, MaxHealth: 100},
	})
	eng.ChannelID = cfg.ChannelID
	return &engagement.Battle{Engagement: eng, Config: cfg}
}

func (s *HandlerTestSuite) waitForSend() *discordgo.MessageSend {
	select {
	case msg := <-s.session.notify:
		return msg
	case <-time.After(time.Second):
		s.FailNow("nothing was sent")
		return nil
	}
}

func (s *HandlerTestSuite) TestBattleRunsAndPostsResult() {
	s.catalog.EXPECT().GetEnemy("Dummy").Return(&catalog.Enemy{Name: "Dummy"})
	s.service.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg *engagement.Config) (*engagement.Battle, error) {
			s.Equal(combat.KindMission, cfg.Kind)
			s.Equal("chan-1", cfg.ChannelID)
			s.Equal("p1", cfg.Allies[0].PlayerID)
			s.Equal("Dummy", cfg.Enemies[0].Enemy)
			return battleFor(cfg), nil
		})
	s.service.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *engagement.Battle) (*outcome.Resolution, error) {
			b.Engagement.Terminate(combat.ResultVictory)
			return &outcome.Resolution{
				EngagementID: b.Engagement.ID,
				Result:       combat.ResultVictory,
				Rounds:       2,
				Winners:      []*combat.Combatant{b.Engagement.Combatants[0]},
				Rewards:      []outcome.Grant{{CombatantID: "p1", Exp: 6.5, Money: 520}},
			}, nil
		})

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Dummy"))))
	s.Contains(s.session.lastResponse().Data.Content, "engages Dummy")

	result := s.waitForSend()
	s.Require().Len(result.Embeds, 1)
	s.Equal("🏆 Naruto won!", result.Embeds[0].Title)
	s.Require().Len(result.Embeds[0].Fields, 1)
	s.Equal("+6.50 exp · +520 ryo", result.Embeds[0].Fields[0].Value)
}

func (s *HandlerTestSuite) TestComboEnemyIsBoss() {
	s.catalog.EXPECT().GetEnemy("Lee").Return(&catalog.Enemy{Name: "Lee", Combo: "Lion Barrage"})
	s.service.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil, errors.New("store down")).
		Do(func(_ context.Context, cfg *engagement.Config) {
			s.Equal(combat.KindBoss, cfg.Kind)
		})

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Lee"))))
	s.Contains(s.session.lastResponse().Data.Content, "Could not start the battle")
}

func (s *HandlerTestSuite) TestBusyPlayerCannotStartSecondBattle() {
	release := make(chan struct{})
	s.catalog.EXPECT().GetEnemy("Dummy").Return(&catalog.Enemy{Name: "Dummy"}).AnyTimes()
	s.service.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg *engagement.Config) (*engagement.Battle, error) {
			return battleFor(cfg), nil
		})
	s.service.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, b *engagement.Battle) (*outcome.Resolution, error) {
			<-release
			return nil, errors.New("aborted")
		})

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Dummy"))))
	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Dummy"))))
	s.Contains(s.session.lastResponse().Data.Content, "already in a battle")

	close(release)
	notice := s.waitForSend()
	s.Contains(notice.Content, "called off")
}

func (s *HandlerTestSuite) TestShutdownAbortsPendingPrompt() {
	s.catalog.EXPECT().GetEnemy("Dummy").Return(&catalog.Enemy{Name: "Dummy"}).Times(2)
	s.service.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cfg *engagement.Config) (*engagement.Battle, error) {
			return battleFor(cfg), nil
		})
	s.service.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, b *engagement.Battle) (*outcome.Resolution, error) {
			_, err := s.handler.prompter.RequestAction(ctx, &engagement.ActionRequest{
				EngagementID: b.Engagement.ID,
				ChannelID:    b.Engagement.ChannelID,
				Round:        1,
				Combatant:    combat.Snapshot(b.Engagement.Combatants[0]),
				Techniques:   []engagement.TechniqueOption{{Name: "Strike", Affordable: true}},
				Deadline:     time.Now().Add(time.Hour),
			})
			return nil, cmberr.Abortedf("engagement %s cancelled: %v", b.Engagement.ID, err)
		})

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Dummy"))))
	prompt := s.waitForSend()
	s.Require().NotEmpty(prompt.Components, "the prompt is waiting on a click")

	done := make(chan struct{})
	go func() {
		s.handler.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("shutdown blocked on a pending prompt")
	}

	notice := s.waitForSend()
	s.Contains(notice.Content, "arena is closing")

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandBattle, stringOption(optionEnemy, "Dummy"))))
	s.Contains(s.session.lastResponse().Data.Content, "arena is closing")
}

func (s *HandlerTestSuite) TestCannotDuelYourself() {
	opt := &discordgo.ApplicationCommandInteractionDataOption{
		Name:  optionOpponent,
		Type:  discordgo.ApplicationCommandOptionUser,
		Value: "p1",
	}
	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandDuel, opt)))
	s.Contains(s.session.lastResponse().Data.Content, "someone else")
}

func (s *HandlerTestSuite) TestCommandsListEnemyChoices() {
	s.catalog.EXPECT().ListEnemies().Return([]*catalog.Enemy{{Name: "Dummy"}, {Name: "Lee"}})

	cmds := s.handler.Commands()
	s.Require().Len(cmds, 3)
	s.Equal(commandRegister, cmds[0].Name)
	s.Equal(commandBattle, cmds[1].Name)
	s.Len(cmds[1].Options[0].Choices, 2)
	s.Equal(commandDuel, cmds[2].Name)
	s.True(cmds[2].Options[0].Required)
}

func (s *HandlerTestSuite) TestRegister() {
	s.catalog.EXPECT().DefaultTechnique().Return(catalog.ShurikenThrow()).Times(2)

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandRegister)))
	s.Contains(s.session.lastResponse().Data.Content, "Welcome to the academy")

	p, err := s.players.Get(context.Background(), "p1")
	s.Require().NoError(err)
	s.Equal("academy student", p.Rank)
	s.Equal(catalog.DefaultTechniqueName, p.Techniques["slot1"])

	s.Require().NoError(s.handler.HandleInteraction(command("p1", commandRegister)))
	s.Contains(s.session.lastResponse().Data.Content, "already enrolled")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
