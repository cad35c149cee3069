package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// reminderRow is a reminders row as stored. Identifiers are decimal text so
// that the full uint64 range survives both backends.
type reminderRow struct {
	ID      int64   `db:"id"`
	Who     string  `db:"who"`
	Server  string  `db:"server"`
	Channel string  `db:"channel"`
	When    utcTime `db:"when"`
	What    string  `db:"what"`
}

func (r reminderRow) toModel() (model.Reminder, error) {
	who, err := parseSnowflake("who", r.Who)
	if err != nil {
		return model.Reminder{}, err
	}
	server, err := parseSnowflake("server", r.Server)
	if err != nil {
		return model.Reminder{}, err
	}
	channel, err := parseSnowflake("channel", r.Channel)
	if err != nil {
		return model.Reminder{}, err
	}
	return model.Reminder{
		ID:      r.ID,
		Who:     who,
		Server:  server,
		Channel: channel,
		When:    r.When.Time,
		What:    r.What,
	}, nil
}

func parseSnowflake(column, s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s holds %q: %v", model.ErrConversion, column, s, err)
	}
	return v, nil
}

func formatSnowflake(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// ReminderRepo persists reminders. Range queries measure "now" with its clock.
type ReminderRepo struct {
	db    *DB
	clock model.Clock
}

// NewReminderRepo returns a repository over db. A nil clock means the system clock.
func NewReminderRepo(db *DB, clock model.Clock) *ReminderRepo {
	if clock == nil {
		clock = model.SystemClock{}
	}
	return &ReminderRepo{db: db, clock: clock}
}

func (r *ReminderRepo) columns() string {
	return fmt.Sprintf(`SELECT id, who, server, channel, "when", what FROM %s`, r.db.Dialect.Table())
}

// Insert stores reminder and returns its new id. reminder.ID is ignored.
func (r *ReminderRepo) Insert(ctx context.Context, reminder model.Reminder) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (who, server, channel, "when", what) VALUES (?, ?, ?, ?, ?)`, r.db.Dialect.Table())

	var id int64
	err := r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		id, err = r.db.Dialect.InsertReturningID(ctx, tx, query,
			formatSnowflake(reminder.Who),
			formatSnowflake(reminder.Server),
			formatSnowflake(reminder.Channel),
			r.db.Dialect.TimeArg(reminder.When),
			reminder.What,
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert reminder: %v", model.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Trace().Int64("id", id).Time("when", reminder.When).Msg("inserted reminder")
	return id, nil
}

// Delete removes the row with reminder.ID. Deleting a missing row is not an error.
func (r *ReminderRepo) Delete(ctx context.Context, reminder model.Reminder) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.db.Dialect.Table())
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), reminder.ID); err != nil {
			return fmt.Errorf("%w: failed to delete reminder %d: %v", model.ErrStorage, reminder.ID, err)
		}
		return nil
	})
}

// Get returns the reminder with id, or nil when there is none.
func (r *ReminderRepo) Get(ctx context.Context, id int64) (*model.Reminder, error) {
	var row reminderRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(r.columns()+" WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get reminder %d: %v", model.ErrStorage, id, err)
	}
	reminder, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// GetSince returns reminders due in [moment, now).
func (r *ReminderRepo) GetSince(ctx context.Context, moment time.Time) ([]model.Reminder, error) {
	return r.between(ctx, moment, r.clock.Now())
}

// GetBefore returns reminders due in [epoch, moment).
func (r *ReminderRepo) GetBefore(ctx context.Context, moment time.Time) ([]model.Reminder, error) {
	return r.between(ctx, time.Unix(0, 0), moment)
}

func (r *ReminderRepo) between(ctx context.Context, from, to time.Time) ([]model.Reminder, error) {
	query := r.db.Rebind(r.columns() + ` WHERE "when" >= ? AND "when" < ? ORDER BY "when", id`)

	var rows []reminderRow
	err := r.db.SelectContext(ctx, &rows, query, r.db.Dialect.TimeArg(from), r.db.Dialect.TimeArg(to))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get reminders between %s and %s: %v",
			model.ErrStorage, from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	reminders := make([]model.Reminder, 0, len(rows))
	for _, row := range rows {
		reminder, err := row.toModel()
		if err != nil {
			return nil, fmt.Errorf("reminder %d: %w", row.ID, err)
		}
		reminders = append(reminders, reminder)
	}
	return reminders, nil
}

// DeleteMany removes every row in ids in a single transaction. An empty list
// does nothing.
func (r *ReminderRepo) DeleteMany(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("DELETE FROM %s WHERE id IN (?)", r.db.Dialect.Table()), ids)
	if err != nil {
		return fmt.Errorf("%w: failed to build delete query: %v", model.ErrStorage, err)
	}
	return r.db.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
		if err != nil {
			return fmt.Errorf("%w: failed to delete %d reminders: %v", model.ErrStorage, len(ids), err)
		}
		if n, err := res.RowsAffected(); err == nil {
			log.Debug().Int64("deleted", n).Int("requested", len(ids)).Msg("deleted reminders")
		}
		return nil
	})
}

// DeleteReminders removes the given reminders by id.
func (r *ReminderRepo) DeleteReminders(ctx context.Context, reminders []model.Reminder) error {
	ids := make([]int64, 0, len(reminders))
	for _, reminder := range reminders {
		ids = append(ids, reminder.ID)
	}
	return r.DeleteMany(ctx, ids)
}
