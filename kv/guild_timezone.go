package kv

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// GuildTimezones stores the per-guild timezone setting.
type GuildTimezones struct {
	kv *Client
}

func NewGuildTimezones(c *Client) *GuildTimezones {
	return &GuildTimezones{kv: c}
}

// Set upserts the timezone name for a guild.
func (g *GuildTimezones) Set(ctx context.Context, guildID uint64, timezone string) error {
	return g.kv.SaveJSON(ctx, model.GuildTimezone{GuildID: guildID, Timezone: timezone})
}

// Get returns the stored setting, or nil when the guild never set one.
func (g *GuildTimezones) Get(ctx context.Context, guildID uint64) (*model.GuildTimezone, error) {
	return GetJSON(ctx, g.kv, model.GuildTimezone{GuildID: guildID})
}

// Location resolves the guild's timezone. It never fails: a missing,
// unreadable or unknown setting resolves to UTC.
func (g *GuildTimezones) Location(ctx context.Context, guildID uint64) *time.Location {
	setting, err := g.Get(ctx, guildID)
	if err != nil {
		log.Warn().Err(err).Uint64("guild_id", guildID).Msg("could not read guild timezone, using UTC")
		return time.UTC
	}
	if setting == nil {
		log.Debug().Uint64("guild_id", guildID).Msg("no timezone set for guild")
		return time.UTC
	}

	loc, err := setting.Location()
	if err != nil {
		log.Warn().Err(err).Uint64("guild_id", guildID).Msg("stored guild timezone is invalid, using UTC")
		return time.UTC
	}
	return loc
}
