package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"reminder-bot/bot"
	"reminder-bot/model"
	"reminder-bot/utils"
)

// normalizeTimezone checks name against the IANA database and returns its
// canonical spelling.
func normalizeTimezone(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return "", fmt.Errorf("%w: %q is not a timezone", model.ErrParse, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", fmt.Errorf("%w: unknown timezone %q", model.ErrParse, name)
	}
	return loc.String(), nil
}

// HandleTimezone handles /timezone.
func HandleTimezone(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	guildID, err := strconv.ParseUint(i.GuildID, 10, 64)
	if err != nil {
		utils.SendErrorResponse(s, i, "The timezone can only be set in a server.")
		return
	}

	name, err := normalizeTimezone(optionString(i, "name"))
	if err != nil {
		utils.SendErrorResponse(s, i, "That is not a timezone I know. Use an IANA name like Europe/Brussels.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Error().Err(err).Msg("failed to defer timezone response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.Timezones.Set(ctx, guildID, name); err != nil {
		log.Warn().Err(err).Uint64("guild", guildID).Msg("error setting the timezone for the server")
		utils.SendFollowUp(s, i.Interaction, "I could not save the timezone, please try again later.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Set timezone %s for the server.", name))
}
