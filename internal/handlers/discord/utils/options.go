package utils

import "github.com/bwmarrin/discordgo"

// GetCommandOption finds an option by name, descending through subcommands
func GetCommandOption(data discordgo.ApplicationCommandInteractionData, name string) *discordgo.ApplicationCommandInteractionDataOption {
	options := data.Options
	for len(options) > 0 {
		for _, opt := range options {
			if opt.Name == name {
				return opt
			}
		}
		options = options[0].Options
	}
	return nil
}

// GetStringOption returns a string option's value, or "" when absent
func GetStringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	opt := GetCommandOption(data, name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// GetUserIDOption returns the id a user option points at, or "" when absent
func GetUserIDOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	opt := GetCommandOption(data, name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionUser {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}
