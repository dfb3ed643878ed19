package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeResponder struct {
	respondErr error
	responses  []*discordgo.InteractionResponse
	followups  []*discordgo.WebhookParams
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	if f.respondErr != nil {
		return f.respondErr
	}
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func TestRecoverMiddleware(t *testing.T) {
	interaction := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{ID: "i-1"}}

	t.Run("passes through", func(t *testing.T) {
		r := &fakeResponder{}
		called := false
		wrapped := RecoverMiddleware(zap.NewNop(), func(_ *fakeResponder, _ *discordgo.InteractionCreate) {
			called = true
		})

		wrapped(r, interaction)
		assert.True(t, called)
		assert.Empty(t, r.responses)
	})

	t.Run("panic responds ephemerally", func(t *testing.T) {
		r := &fakeResponder{}
		wrapped := RecoverMiddleware(zap.NewNop(), func(_ *fakeResponder, _ *discordgo.InteractionCreate) {
			panic("boom")
		})

		assert.NotPanics(t, func() { wrapped(r, interaction) })
		if assert.Len(t, r.responses, 1) {
			assert.Equal(t, discordgo.MessageFlagsEphemeral, r.responses[0].Data.Flags)
			assert.Contains(t, r.responses[0].Data.Content, "unexpected error")
		}
	})

	t.Run("falls back to followup", func(t *testing.T) {
		r := &fakeResponder{respondErr: errors.New("already acknowledged")}
		wrapped := RecoverMiddleware(zap.NewNop(), func(_ *fakeResponder, _ *discordgo.InteractionCreate) {
			panic("boom")
		})

		wrapped(r, interaction)
		assert.Len(t, r.followups, 1)
	})
}
