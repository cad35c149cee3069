package commands

import (
	"reminder-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the slash commands the bot registers.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Reminder,
		defs.Timezone,
		defs.Status,
	}
}
