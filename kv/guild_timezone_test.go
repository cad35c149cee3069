package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildTimezones_Location(t *testing.T) {
	c, mr := newTestClient(t)
	store := NewGuildTimezones(c)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, 1, "Europe/Brussels"))
	require.NoError(t, store.Set(ctx, 2, "Mars/Olympus_Mons"))
	require.NoError(t, mr.Set("guild_timezone_3", "garbage"))

	tests := []struct {
		name    string
		guildID uint64
		want    string
	}{
		{name: "stored", guildID: 1, want: "Europe/Brussels"},
		{name: "unknown zone", guildID: 2, want: "UTC"},
		{name: "malformed value", guildID: 3, want: "UTC"},
		{name: "never set", guildID: 4, want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.Location(ctx, tt.guildID).String())
		})
	}
}

func TestGuildTimezones_LocationWhenStoreIsDown(t *testing.T) {
	c, mr := newTestClient(t)
	store := NewGuildTimezones(c)
	mr.Close()

	assert.Equal(t, time.UTC, store.Location(context.Background(), 1))
}
