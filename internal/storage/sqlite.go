package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// SQLite is the durable KV adapter, a single two-column table.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// kv table exists.
func OpenSQLite(path string, log zerolog.Logger) (*SQLite, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite best practice for single writer

	s := &SQLite{db: db, log: log.With().Str("component", "storage").Logger()}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate kv table: %w", err)
	}
	s.log.Info().Str("path", path).Msg("kv store ready")
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`)
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := sqlBuilder.
		Select("value").
		From("kv").
		Where(squirrel.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("kv get failed")
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	query, args, err := sqlBuilder.
		Insert("kv").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("kv set failed")
		return err
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
