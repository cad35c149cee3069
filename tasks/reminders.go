package tasks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RemindersJob sends every reminder that fell due since the previous tick.
type RemindersJob struct{}

func (RemindersJob) Name() string { return "reminders" }

func (RemindersJob) Run(ctx context.Context, args *JobArgs) error {
	due, err := args.reminders().GetSince(ctx, args.LastRun)
	if err != nil {
		return fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	failed := 0
	for _, reminder := range due {
		text := fmt.Sprintf("%s I was supposed to remind you of %s", args.Messenger.Mention(reminder.Who), reminder.What)
		if err := args.Messenger.Send(ctx, reminder.Channel, text); err != nil {
			failed++
			log.Error().Err(err).
				Int64("reminder", reminder.ID).
				Uint64("channel", reminder.Channel).
				Msg("failed to send reminder")
			continue
		}
		log.Debug().Int64("reminder", reminder.ID).Msg("reminder sent")
	}

	if len(due) > 0 {
		log.Info().Int("due", len(due)).Int("failed", failed).Msg("dispatched reminders")
	}
	return nil
}
