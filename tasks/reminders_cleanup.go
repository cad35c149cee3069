package tasks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// RemindersCleanupJob deletes reminders due more than two job intervals ago.
type RemindersCleanupJob struct{}

func (RemindersCleanupJob) Name() string { return "reminders_cleanup" }

func (RemindersCleanupJob) Run(ctx context.Context, args *JobArgs) error {
	repo := args.reminders()
	cutoff := args.Clock.Now().Add(-2 * args.Interval)

	stale, err := repo.GetBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("could not fetch reminders to clean up")
		return nil
	}
	if len(stale) == 0 {
		return nil
	}

	if err := repo.DeleteReminders(ctx, stale); err != nil {
		return fmt.Errorf("failed to delete %d stale reminders: %w", len(stale), err)
	}
	log.Info().Int("deleted", len(stale)).Time("cutoff", cutoff).Msg("cleaned up reminders")
	return nil
}
