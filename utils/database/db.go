package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"reminder-bot/model"
)

// DB is a connection pool together with the SQL dialect it speaks.
// It is safe for concurrent use.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// Open connects to the database named by url and applies any pending schema
// changes. Supported forms are sqlite://path, sqlite::memory: and
// postgres://... (or postgresql://...).
func Open(ctx context.Context, url string) (*DB, error) {
	dialect, dsn, err := dialectFor(url)
	if err != nil {
		return nil, err
	}

	if dialect.Name() == sqliteName && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	log.Debug().Str("dialect", dialect.Name()).Msg("connecting to the database")
	conn, err := sqlx.ConnectContext(ctx, dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: error connecting to database: %v", model.ErrStorage, err)
	}

	if dialect.Name() == sqliteName {
		// one writer; also keeps a :memory: database on a single connection
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	} else {
		conn.SetMaxOpenConns(4)
	}

	db := &DB{DB: conn, Dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func dialectFor(url string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return sqliteDialect{}, strings.TrimPrefix(url, "sqlite://"), nil
	case strings.HasPrefix(url, "sqlite:"):
		return sqliteDialect{}, strings.TrimPrefix(url, "sqlite:"), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgresDialect{}, url, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported database url %q", model.ErrConfiguration, url)
	}
}

func (db *DB) migrate(ctx context.Context) error {
	log.Debug().Msg("running any pending migrations")
	for _, stmt := range db.Dialect.Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: error applying migrations: %v", model.ErrStorage, err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction and commits it. Nothing fn did is
// visible to other connections unless the commit succeeds.
func (db *DB) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: error starting transaction: %v", model.ErrStorage, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: error committing transaction: %v", model.ErrStorage, err)
	}
	return nil
}
