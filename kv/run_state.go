package kv

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// RunStates persists scheduler run-state, one record per shard key.
type RunStates struct {
	kv *Client
}

func NewRunStates(c *Client) *RunStates {
	return &RunStates{kv: c}
}

// Load returns the last persisted state of the shard, or nil when the shard
// has never completed a tick.
func (r *RunStates) Load(ctx context.Context, shardKey uuid.UUID) (*model.JobState, error) {
	state, err := GetJSON(ctx, r.kv, model.JobStateFor(shardKey))
	if err != nil {
		return nil, fmt.Errorf("error getting job state for shard %s: %w", shardKey, err)
	}
	return state, nil
}

// Save overwrites the shard's state.
func (r *RunStates) Save(ctx context.Context, state model.JobState) error {
	log.Debug().Time("last_run", state.LastRun).Str("shard_key", state.ShardKey.String()).Msg("saving completed run")
	return r.kv.SaveJSON(ctx, state)
}
