package discord

import (
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Responder is the slice of *discordgo.Session used to report a failure
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// RecoverMiddleware wraps handler functions to recover from panics
func RecoverMiddleware[S Responder](logger *zap.Logger, handler func(S, *discordgo.InteractionCreate)) func(S, *discordgo.InteractionCreate) {
	return func(s S, i *discordgo.InteractionCreate) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in interaction handler",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))

				respondWithError(logger, s, i, "An unexpected error occurred")
			}
		}()

		handler(s, i)
	}
}

// respondWithError attempts to send an error message to the user
func respondWithError(logger *zap.Logger, s Responder, i *discordgo.InteractionCreate, message string) {
	content := fmt.Sprintf("❌ %s", message)
	responses := []func() error{
		// not yet responded
		func() error {
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: content,
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
		},
		func() error {
			_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
				Content: content,
				Flags:   discordgo.MessageFlagsEphemeral,
			})
			return err
		},
	}

	for _, respond := range responses {
		if err := respond(); err == nil {
			return
		}
	}

	logger.Warn("failed to send error response to user", zap.String("message", message))
}
