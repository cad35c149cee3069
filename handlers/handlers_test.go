package handlers

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder-bot/model"
)

func commandInteraction(guildID string, options map[string]string) *discordgo.InteractionCreate {
	opts := make([]*discordgo.ApplicationCommandInteractionDataOption, 0, len(options))
	for name, value := range options {
		opts = append(opts, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  name,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: value,
		})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: "812345678901234567",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "18446744073709551615"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "reminder",
			Options: opts,
		},
	}}
}

func TestParseRequest(t *testing.T) {
	i := commandInteraction("712345678901234567", map[string]string{"when": "in 5 minutes", "what": "tea"})

	req, err := parseRequest(i)
	require.NoError(t, err)
	assert.Equal(t, reminderRequest{
		Guild:   712345678901234567,
		Channel: 812345678901234567,
		User:    18446744073709551615,
		When:    "in 5 minutes",
		What:    "tea",
	}, req)
}

func TestParseRequest_BadSnowflake(t *testing.T) {
	i := commandInteraction("not-a-guild", map[string]string{"when": "in 5 minutes", "what": "tea"})
	_, err := parseRequest(i)
	assert.ErrorIs(t, err, model.ErrConversion)
}

func TestInvoker_DirectMessage(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "42"}}}
	assert.Equal(t, "42", invoker(i))
}

func TestPlanReminder(t *testing.T) {
	brussels, err := time.LoadLocation("Europe/Brussels")
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	base := reminderRequest{Guild: 1, Channel: 2, User: 3, What: "stand up"}

	t.Run("relative", func(t *testing.T) {
		req := base
		req.When = "in 5 minutes"
		reminder, at, err := planReminder(req, time.UTC, now, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, now.Add(5*time.Minute), reminder.When)
		assert.True(t, at.Equal(reminder.When))
		assert.Equal(t, uint64(3), reminder.Who)
		assert.Equal(t, "stand up", reminder.What)
	})

	t.Run("guild timezone", func(t *testing.T) {
		req := base
		req.When = "tomorrow at 8am"
		reminder, at, err := planReminder(req, brussels, now, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC), reminder.When)
		assert.Equal(t, "11/03/2026 08:00", at.In(brussels).Format(reminderTimeFormat))
	})

	t.Run("too soon", func(t *testing.T) {
		req := base
		req.When = "in 30 seconds"
		_, _, err := planReminder(req, time.UTC, now, time.Minute)
		assert.ErrorIs(t, err, errTooSoon)
	})

	t.Run("unparseable", func(t *testing.T) {
		req := base
		req.When = "when pigs fly"
		_, _, err := planReminder(req, time.UTC, now, time.Minute)
		assert.ErrorIs(t, err, model.ErrParse)
	})
}

func TestNormalizeTimezone(t *testing.T) {
	name, err := normalizeTimezone(" Europe/Brussels ")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Brussels", name)

	for _, bad := range []string{"", "Local", "Mars/Olympus_Mons"} {
		_, err := normalizeTimezone(bad)
		assert.ErrorIs(t, err, model.ErrParse, bad)
	}
}
