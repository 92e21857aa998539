package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS client_storage (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// pgxDB is the slice of *pgxpool.Pool the store uses.
type pgxDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

// PostgresStore keeps client storage in a single table so several instances can share it.
type PostgresStore struct {
	db pgxDB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create client_storage table: %w", err)
	}
	slog.Info("postgres storage ready")
	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Get(ctx context.Context, namespace, key string) (string, error) {
	if err := validNamespace(namespace); err != nil {
		return "", err
	}
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM client_storage WHERE namespace = $1 AND key = $2`,
		namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select client storage: %w", err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, namespace, key, value string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO client_storage (namespace, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		namespace, key, value)
	if err != nil {
		return fmt.Errorf("upsert client storage: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	if err := validNamespace(namespace); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM client_storage WHERE namespace = $1 AND key = $2`, namespace, key); err != nil {
		return fmt.Errorf("delete client storage: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

var _ Store = (*PostgresStore)(nil)
