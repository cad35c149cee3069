package model

import (
	"fmt"
	"time"
)

// GuildTimezone contains the timezone set for a guild.
type GuildTimezone struct {
	GuildID  uint64 `json:"guild_id"`
	Timezone string `json:"timezone"`
}

func (g GuildTimezone) KVKey() string {
	return fmt.Sprintf("guild_timezone_%d", g.GuildID)
}

// Location parses the stored IANA name.
func (g GuildTimezone) Location() (*time.Location, error) {
	if g.Timezone == "" {
		return nil, fmt.Errorf("%w: empty timezone for guild %d", ErrParse, g.GuildID)
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrParse, g.Timezone, err)
	}
	return loc, nil
}
