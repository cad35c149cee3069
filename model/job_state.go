package model

import (
	"time"

	"github.com/google/uuid"
)

// JobState is the persisted run-state of one scheduler shard.
type JobState struct {
	LastRun  time.Time `json:"last_run"`
	ShardKey uuid.UUID `json:"job_shard_key"`
}

// JobStateFor returns a lookup template for the given shard.
func JobStateFor(shardKey uuid.UUID) JobState {
	return JobState{ShardKey: shardKey}
}

func (s JobState) KVKey() string {
	return "jobstate_" + s.ShardKey.String()
}
