package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	sqliteName   = "sqlite"
	postgresName = "postgres"
)

// sqliteTimeLayout is fixed width so that text comparison orders instants.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// Dialect hides the syntax differences between the supported SQL backends.
type Dialect interface {
	Name() string
	DriverName() string
	Schema() []string
	Table() string
	// TimeArg converts an instant into the bind value the backend compares.
	TimeArg(t time.Time) any
	// InsertReturningID runs an insert and reports the generated id.
	InsertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string       { return sqliteName }
func (sqliteDialect) DriverName() string { return "sqlite3" }
func (sqliteDialect) Table() string      { return "reminders" }

func (sqliteDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			who TEXT NOT NULL,
			server TEXT NOT NULL,
			channel TEXT NOT NULL,
			"when" DATETIME NOT NULL,
			what TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS reminders_when_idx ON reminders ("when")`,
	}
}

func (sqliteDialect) TimeArg(t time.Time) any {
	return t.UTC().Format(sqliteTimeLayout)
}

func (sqliteDialect) InsertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return postgresName }
func (postgresDialect) DriverName() string { return "postgres" }
func (postgresDialect) Table() string      { return "public.reminders" }

func (postgresDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS public.reminders (
			id BIGSERIAL PRIMARY KEY,
			who TEXT NOT NULL,
			server TEXT NOT NULL,
			channel TEXT NOT NULL,
			"when" TIMESTAMPTZ NOT NULL,
			what TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS reminders_when_idx ON public.reminders ("when")`,
	}
}

func (postgresDialect) TimeArg(t time.Time) any {
	return t.UTC()
}

func (postgresDialect) InsertReturningID(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	var id int64
	err := tx.QueryRowxContext(ctx, tx.Rebind(query+" RETURNING id"), args...).Scan(&id)
	return id, err
}

// utcTime scans a timestamp column from either backend into UTC.
type utcTime struct {
	time.Time
}

func (t *utcTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		return fmt.Errorf("null timestamp")
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *utcTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
