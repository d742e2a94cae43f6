package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const createSlotsTable = `
	CREATE TABLE IF NOT EXISTS kv_slots (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// Postgres stores slots as rows of the kv_slots table
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to databaseURL and makes sure the kv_slots table exists
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := NewPostgresWithDB(db)
	if err := p.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgresWithDB wraps an already opened database handle
func NewPostgresWithDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the kv_slots table if it is missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSlotsTable); err != nil {
		return fmt.Errorf("failed to create kv_slots table: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.db.QueryRowContext(ctx, "SELECT value FROM kv_slots WHERE key = $1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, "DELETE FROM kv_slots WHERE key = $1", key); err != nil {
		return fmt.Errorf("failed to remove slot %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Name() string {
	return "postgres"
}

// Close closes the database connection
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}
