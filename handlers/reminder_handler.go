package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"reminder-bot/bot"
	"reminder-bot/model"
	"reminder-bot/utils"
)

const reminderTimeFormat = "02/01/2006 15:04"

var errTooSoon = errors.New("reminder is closer than one job interval")

type reminderRequest struct {
	Guild   uint64
	Channel uint64
	User    uint64
	When    string
	What    string
}

// planReminder turns a request into a reminder due at a UTC instant. now is
// the current instant; loc is the guild's timezone.
func planReminder(req reminderRequest, loc *time.Location, now time.Time, minimum time.Duration) (model.Reminder, time.Time, error) {
	ref := now.In(loc)
	at, err := utils.ParseHumanTime(req.When, loc, &ref)
	if err != nil {
		return model.Reminder{}, time.Time{}, err
	}
	if at.Sub(now) < minimum {
		return model.Reminder{}, at, fmt.Errorf("%w: due %s", errTooSoon, at.Format(time.RFC3339))
	}
	return model.Reminder{
		Who:     req.User,
		Server:  req.Guild,
		Channel: req.Channel,
		When:    at.UTC(),
		What:    req.What,
	}, at, nil
}

func parseRequest(i *discordgo.InteractionCreate) (reminderRequest, error) {
	req := reminderRequest{
		When: optionString(i, "when"),
		What: optionString(i, "what"),
	}
	var err error
	if req.Guild, err = strconv.ParseUint(i.GuildID, 10, 64); err != nil {
		return req, fmt.Errorf("%w: guild id %q", model.ErrConversion, i.GuildID)
	}
	if req.Channel, err = strconv.ParseUint(i.ChannelID, 10, 64); err != nil {
		return req, fmt.Errorf("%w: channel id %q", model.ErrConversion, i.ChannelID)
	}
	if req.User, err = strconv.ParseUint(invoker(i), 10, 64); err != nil {
		return req, fmt.Errorf("%w: user id %q", model.ErrConversion, invoker(i))
	}
	return req, nil
}

// HandleReminder handles /reminder.
func HandleReminder(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if i.GuildID == "" {
		utils.SendErrorResponse(s, i, "Reminders can only be set in a server.")
		return
	}
	req, err := parseRequest(i)
	if err != nil {
		log.Error().Err(err).Msg("malformed reminder interaction")
		utils.SendErrorResponse(s, i, "Something went wrong reading that command.")
		return
	}

	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Error().Err(err).Msg("failed to defer reminder response")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	loc := b.Timezones.Location(ctx, req.Guild)
	interval := b.GetConfig().JobInterval
	reminder, at, err := planReminder(req, loc, time.Now(), interval)
	switch {
	case errors.Is(err, model.ErrParse):
		log.Debug().Err(err).Str("when", req.When).Msg("could not parse reminder time")
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("What the hell am I supposed to make of %s?!", req.When))
		return
	case errors.Is(err, errTooSoon):
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("The minimum amount of time for a reminder is %s.", interval))
		return
	case err != nil:
		log.Error().Err(err).Msg("failed to plan reminder")
		utils.SendFollowUp(s, i.Interaction, "Something went wrong, please try again later.")
		return
	}

	id, err := b.Reminders.Insert(ctx, reminder)
	if err != nil {
		log.Error().Err(err).Uint64("guild", req.Guild).Msg("failed to save reminder")
		utils.SendFollowUp(s, i.Interaction, "I could not save that reminder, please try again later.")
		return
	}
	log.Debug().Int64("id", id).Time("when", reminder.When).Msg("saved reminder")

	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Got it! I will remind you at %s about %s", at.In(loc).Format(reminderTimeFormat), req.What))
}
