package tasks

import (
	"context"
	"time"

	"reminder-bot/kv"
	"reminder-bot/model"
	"reminder-bot/utils/database"
)

// Job is one unit of periodic work. The scheduler runs every registered job
// once per tick, in registration order.
type Job interface {
	Name() string
	Run(ctx context.Context, args *JobArgs) error
}

// Messenger delivers plain text to a channel.
type Messenger interface {
	Send(ctx context.Context, channelID uint64, text string) error
	Mention(userID uint64) string
}

// JobArgs is shared by all jobs of a tick. LastRun and Now bound the window
// the tick is responsible for. Interval is the scheduler's tick period.
type JobArgs struct {
	LastRun   time.Time
	Now       time.Time
	Interval  time.Duration
	DB        *database.DB
	KV        *kv.Client
	Config    model.Config
	Messenger Messenger
	Clock     model.Clock
}

func (a *JobArgs) reminders() *database.ReminderRepo {
	return database.NewReminderRepo(a.DB, a.Clock)
}
