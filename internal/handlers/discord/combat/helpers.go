package combat

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	cmberr "github.com/KirkDiggler/shinobi-bot/internal/errors"
)

const (
	customIDPrefix = "combat"
	customIDAct    = "act"

	choiceFocus = "focus"
	choiceFlee  = "flee"
)

// title renders catalog names like "fireball jutsu" as "Fireball Jutsu".
// A Caser is stateful, so each call gets its own.
func title(s string) string {
	return cases.Title(language.English, cases.NoLower).String(s)
}

// actionCustomID builds combat:act:<token>:<choice>
func actionCustomID(token, choice string) string {
	return strings.Join([]string{customIDPrefix, customIDAct, token, choice}, ":")
}

// techniqueChoice encodes the index of a technique option
func techniqueChoice(i int) string {
	return fmt.Sprintf("t%d", i)
}

// parseCustomID splits combat:act:<token>:<choice>
func parseCustomID(customID string) (token, choice string, ok bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 4 || parts[0] != customIDPrefix || parts[1] != customIDAct {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// IsCombatComponent reports whether a component custom id belongs to this package
func IsCombatComponent(customID string) bool {
	return strings.HasPrefix(customID, customIDPrefix+":")
}

// interactionUserID returns the id of whoever triggered the interaction
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// respondEphemeral sends a message only the clicking user can see
func respondEphemeral(s Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondError sends an ephemeral error and logs the cause
func respondError(s Session, i *discordgo.InteractionCreate, logger *zap.Logger, message string, err error) error {
	content := fmt.Sprintf("❌ %s", message)
	if err != nil {
		logger.Warn(message, errorFields(err)...)
	}
	return respondEphemeral(s, i, content)
}

// errorFields flattens a coded error's metadata into log fields
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err), zap.String("code", string(cmberr.GetCode(err)))}
	for k, v := range cmberr.GetMeta(err) {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}
