package combat

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/shinobi-bot/internal/domain/combat"
	"github.com/KirkDiggler/shinobi-bot/internal/services/engagement"
	"github.com/KirkDiggler/shinobi-bot/internal/services/outcome"
)

const (
	colorPrompt  = 0x3498db
	colorRound   = 0xe67e22
	colorVictory = 0x2ecc71
	colorDefeat  = 0xe74c3c
	colorNeutral = 0x95a5a6

	// Discord allows 5 buttons per row and 5 rows per message
	buttonsPerRow  = 5
	techniqueRows  = 4
	maxTechniques  = buttonsPerRow * techniqueRows
	healthBarWidth = 10
)

// healthBar renders a fixed-width text bar
func healthBar(health, maxHealth int) string {
	if maxHealth <= 0 {
		return strings.Repeat("░", healthBarWidth)
	}
	filled := health * healthBarWidth / maxHealth
	if health > 0 && filled == 0 {
		filled = 1
	}
	filled = min(max(filled, 0), healthBarWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", healthBarWidth-filled)
}

func combatantLine(c combat.CombatantSnapshot) string {
	line := fmt.Sprintf("%s %d/%d ❤️ · %d/%d 🌀", healthBar(c.Health, c.MaxHealth), c.Health, c.MaxHealth, c.Chakra, c.MaxChakra)
	if len(c.Statuses) > 0 {
		statuses := make([]string, len(c.Statuses))
		for i, s := range c.Statuses {
			statuses[i] = title(s)
		}
		line += "\n" + strings.Join(statuses, ", ")
	}
	return line
}

// buildPromptEmbed asks one combatant for an action
func buildPromptEmbed(req *engagement.ActionRequest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("⚔️ Round %d: %s, choose your move", req.Round, req.Combatant.Name),
		Description: fmt.Sprintf("You have until <t:%d:T> to choose.", req.Deadline.Unix()),
		Color:       colorPrompt,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  req.Combatant.Name,
			Value: combatantLine(req.Combatant),
		}},
	}
	for _, t := range req.Targets {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   t.Name,
			Value:  combatantLine(t),
			Inline: true,
		})
	}
	return embed
}

// buildPromptComponents lays out technique buttons, then focus and flee
func buildPromptComponents(token string, req *engagement.ActionRequest) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent

	for i, t := range req.Techniques {
		if i >= maxTechniques {
			break
		}
		row = append(row, discordgo.Button{
			Label:    fmt.Sprintf("%s (%d)", title(t.Name), t.Cost),
			Style:    discordgo.PrimaryButton,
			CustomID: actionCustomID(token, techniqueChoice(i)),
			Disabled: !t.Affordable,
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Focus (+1 chakra)",
			Style:    discordgo.SecondaryButton,
			CustomID: actionCustomID(token, choiceFocus),
			Emoji:    &discordgo.ComponentEmoji{Name: "🧘"},
		},
		discordgo.Button{
			Label:    "Flee",
			Style:    discordgo.DangerButton,
			CustomID: actionCustomID(token, choiceFlee),
			Emoji:    &discordgo.ComponentEmoji{Name: "🏃"},
		},
	}})
	return rows
}

// buildRoundEmbed renders everything that happened in one round
func buildRoundEmbed(eng *combat.Engagement, summary *combat.RoundSummary) *discordgo.MessageEmbed {
	name := func(id string) string {
		if c := eng.Combatant(id); c != nil {
			return c.Name
		}
		return id
	}

	var lines []string
	for _, tick := range summary.Ticks {
		line := fmt.Sprintf("🩸 %s took %d damage from %s", name(tick.CombatantID), tick.Damage, tick.Status)
		if tick.ChakraLoss > 0 {
			line += fmt.Sprintf(" and lost %d chakra", tick.ChakraLoss)
		}
		lines = append(lines, line)
	}
	for _, out := range summary.Outcomes {
		lines = append(lines, describeOutcome(out, name))
	}
	for _, expired := range summary.Expired {
		lines = append(lines, "⌛ "+expired)
	}
	if len(lines) == 0 {
		lines = append(lines, "Nothing happened.")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📜 Round %d", summary.Round),
		Description: strings.Join(lines, "\n"),
		Color:       colorRound,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	for _, c := range summary.Combatants {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   c.Name,
			Value:  combatantLine(c),
			Inline: true,
		})
	}
	return embed
}

func describeOutcome(out *combat.ActionOutcome, name func(string) string) string {
	var b strings.Builder
	switch {
	case out.Forfeited:
		b.WriteString("💤 ")
	case out.Damage > 0:
		b.WriteString("💥 ")
	case out.Heal > 0:
		b.WriteString("💚 ")
	default:
		b.WriteString("▫️ ")
	}
	b.WriteString(out.Description)

	if out.Damage > 0 && out.TargetID != "" {
		fmt.Fprintf(&b, " (**%d** damage to %s)", out.Damage, name(out.TargetID))
	}
	if out.Heal > 0 {
		fmt.Fprintf(&b, " (healed **%d**)", out.Heal)
	}
	for _, note := range out.Notes {
		b.WriteString("\n  • ")
		b.WriteString(note)
	}
	return b.String()
}

// buildResultEmbed announces how the engagement ended
func buildResultEmbed(eng *combat.Engagement, res *outcome.Resolution) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color: colorNeutral,
	}

	switch res.Result {
	case combat.ResultVictory, combat.ResultDefeat:
		var names []string
		for _, c := range res.Winners {
			names = append(names, c.Name)
		}
		embed.Title = fmt.Sprintf("🏆 %s won!", strings.Join(names, ", "))
		embed.Color = colorVictory
		if res.Result == combat.ResultDefeat && eng.Kind != combat.KindDuel {
			embed.Title = "💀 Defeat"
			embed.Color = colorDefeat
		}
	case combat.ResultFled:
		who := res.FledBy
		if c := eng.Combatant(res.FledBy); c != nil {
			who = c.Name
		}
		embed.Title = fmt.Sprintf("🏃 %s fled the battle", who)
	default:
		embed.Title = "🤝 Draw"
	}
	embed.Description = fmt.Sprintf("The battle lasted %d round(s).", res.Rounds)

	for _, g := range res.Rewards {
		who := g.CombatantID
		if c := eng.Combatant(g.CombatantID); c != nil {
			who = c.Name
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   who,
			Value:  fmt.Sprintf("+%.2f exp · +%d ryo", g.Exp, g.Money),
			Inline: true,
		})
	}
	return embed
}
