package utils_test

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/shinobi-bot/internal/handlers/discord/utils"
)

func TestOptions(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "battle",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name: "raid",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "enemy", Type: discordgo.ApplicationCommandOptionString, Value: "Dummy"},
				{Name: "ally", Type: discordgo.ApplicationCommandOptionUser, Value: "p2"},
			},
		}},
	}

	assert.Equal(t, "Dummy", utils.GetStringOption(data, "enemy"))
	assert.Equal(t, "p2", utils.GetUserIDOption(data, "ally"))
	assert.Empty(t, utils.GetStringOption(data, "ally"))
	assert.Empty(t, utils.GetUserIDOption(data, "missing"))
	assert.Nil(t, utils.GetCommandOption(discordgo.ApplicationCommandInteractionData{}, "enemy"))
}
