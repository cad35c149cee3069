package defs

import "github.com/bwmarrin/discordgo"

var Reminder = &discordgo.ApplicationCommand{
	Name:        "reminder",
	Description: "Ask the bot to remind you of something",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "when",
			Description: "When to remind you, e.g. \"in 5 minutes\" or \"tomorrow at 8am\"",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "what",
			Description: "What to remind you of",
			Required:    true,
			MaxLength:   1500,
		},
	},
}

var Timezone = &discordgo.ApplicationCommand{
	Name:        "timezone",
	Description: "Set the timezone reminders in this server are read in",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "IANA timezone name, e.g. Europe/Brussels",
			Required:    true,
		},
	},
}

var Status = &discordgo.ApplicationCommand{
	Name:        "status",
	Description: "Display bot and system status information",
}
