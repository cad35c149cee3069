package kv

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reminder-bot/model"
)

func TestRunStates(t *testing.T) {
	c, _ := newTestClient(t)
	states := NewRunStates(c)
	ctx := context.Background()
	shard := uuid.New()

	got, err := states.Load(ctx, shard)
	require.NoError(t, err)
	assert.Nil(t, got, "an unseen shard has no state")

	saved := model.JobState{ShardKey: shard, LastRun: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, states.Save(ctx, saved))

	got, err = states.Load(ctx, shard)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, saved.LastRun.Equal(got.LastRun))
	assert.Equal(t, shard, got.ShardKey)

	other, err := states.Load(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, other, "shards do not share state")
}
