package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/derdine/forum-service/internal/storage"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Store implements storage.Storage on top of database/sql. The same
// queries run against Postgres (lib/pq) and SQLite (modernc); only the
// schema's timestamp type differs.
type Store struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	tx     *sqlx.Tx
	driver string
}

var _ storage.Storage = (*Store)(nil)

// Open connects to the database, verifies the connection and applies
// migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer; serialising through one
		// connection avoids SQLITE_BUSY inside transactions.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &Store{db: db, q: db, driver: driver}
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	slog.Info("Connected to database", slog.String("driver", driver))
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a transaction. Calls made on a Store that is
// already transactional join the running transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	return s.inTx(ctx, func(tx *Store) error { return fn(tx) })
}

func (s *Store) inTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txStore := &Store{db: s.db, q: tx, tx: tx, driver: s.driver}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to roll back transaction", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) CreateTables(ctx context.Context) error {
	tsType := "TIMESTAMPTZ"
	if s.driver == DriverSQLite {
		tsType = "DATETIME"
	}

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			avatar_url TEXT,
			badge TEXT,
			is_online BOOLEAN NOT NULL DEFAULT FALSE,
			thread_count INTEGER NOT NULL DEFAULT 0,
			reply_count INTEGER NOT NULL DEFAULT 0,
			reputation INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT 'folder',
			color TEXT NOT NULL DEFAULT '#3B82F6',
			thread_count INTEGER NOT NULL DEFAULT 0,
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS threads (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT,
			view_count INTEGER NOT NULL DEFAULT 0,
			reply_count INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER NOT NULL DEFAULT 0,
			is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
			is_locked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS threads_category_idx ON threads (category_id)`,
		`CREATE INDEX IF NOT EXISTS threads_author_idx ON threads (author_id)`,
		`CREATE TABLE IF NOT EXISTS replies (
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			author_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
			like_count INTEGER NOT NULL DEFAULT 0,
			is_edited BOOLEAN NOT NULL DEFAULT FALSE,
			created_at {{ts}} NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS replies_thread_idx ON replies (thread_id)`,
		`CREATE INDEX IF NOT EXISTS replies_author_idx ON replies (author_id)`,
		`CREATE TABLE IF NOT EXISTS thread_likes (
			thread_id TEXT NOT NULL REFERENCES threads(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at {{ts}} NOT NULL,
			PRIMARY KEY (thread_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reply_likes (
			reply_id TEXT NOT NULL REFERENCES replies(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at {{ts}} NOT NULL,
			PRIMARY KEY (reply_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS theme (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS labels (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ui_configs (
			screen TEXT PRIMARY KEY,
			config TEXT NOT NULL,
			updated_at {{ts}} NOT NULL
		)`,
	}

	for _, q := range queries {
		q = strings.ReplaceAll(q, "{{ts}}", tsType)
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

// lockRow takes a row lock on table's id row for the rest of the running
// transaction. SQLite serializes writers on its single connection, so only
// Postgres needs the explicit lock.
func (s *Store) lockRow(ctx context.Context, table, id string) error {
	if s.driver != DriverPostgres {
		return nil
	}
	var locked string
	return s.get(ctx, &locked, `SELECT id FROM `+table+` WHERE id = ? FOR UPDATE`, id)
}

func (s *Store) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, s.q, dest, s.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func (s *Store) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return sqlx.SelectContext(ctx, s.q, dest, s.q.Rebind(query), args...)
}

// selectIn expands slice arguments into IN lists before querying.
func (s *Store) selectIn(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, s.q, dest, s.q.Rebind(query), args...)
}

func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.q.ExecContext(ctx, s.q.Rebind(query), args...)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected()
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, query string, args ...interface{}) error {
	n, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := s.get(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// mapError translates driver constraint errors into storage errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", storage.ErrReferenced, pqErr.Constraint)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", storage.ErrDuplicate, liteErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %s", storage.ErrReferenced, liteErr.Error())
		}
	}
	return err
}
