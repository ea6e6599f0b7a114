package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"teamforge/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

type Client struct {
	db *sql.DB
}

func New(ctx context.Context, dsn string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	return &Client{db: db}, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS teams (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		posse_id TEXT DEFAULT '',
		position INTEGER NOT NULL,
		active   INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS team_slots (
		team_id       TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		slot_index    INTEGER NOT NULL,
		awakener_name TEXT DEFAULT '',
		faction       TEXT DEFAULT '',
		level         INTEGER DEFAULT 0,
		wheel_one     TEXT DEFAULT '',
		wheel_two     TEXT DEFAULT '',
		covenant_id   TEXT DEFAULT '',
		PRIMARY KEY (team_id, slot_index)
	);

	CREATE INDEX IF NOT EXISTS idx_teams_position ON teams (position);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
