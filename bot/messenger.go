package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// DiscordMessenger sends job output through a discordgo session.
type DiscordMessenger struct {
	session *discordgo.Session
}

func NewDiscordMessenger(s *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: s}
}

func (m *DiscordMessenger) Send(ctx context.Context, channelID uint64, text string) error {
	channel := strconv.FormatUint(channelID, 10)
	if _, err := m.session.ChannelMessageSend(channel, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channel, err)
	}
	return nil
}

func (m *DiscordMessenger) Mention(userID uint64) string {
	return (&discordgo.User{ID: strconv.FormatUint(userID, 10)}).Mention()
}
