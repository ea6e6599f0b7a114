package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"teamforge/internal/store"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{pool: pool}, nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS teams (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		posse_id TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		active   BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE TABLE IF NOT EXISTS team_slots (
		team_id       TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		slot_index    INTEGER NOT NULL,
		awakener_name TEXT NOT NULL DEFAULT '',
		faction       TEXT NOT NULL DEFAULT '',
		level         INTEGER NOT NULL DEFAULT 0,
		wheel_one     TEXT NOT NULL DEFAULT '',
		wheel_two     TEXT NOT NULL DEFAULT '',
		covenant_id   TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (team_id, slot_index)
	);

	CREATE INDEX IF NOT EXISTS idx_teams_position ON teams (position);
	`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
