package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"worldsave/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Client)(nil)

const defaultSlot = "default"

type Client struct {
	db   *sql.DB
	slot string
	path string
}

// New opens the database and ensures the snapshots table exists. Every
// Save and Load addresses the single row keyed by slot.
func New(ctx context.Context, dsn, slot string) (*Client, error) {
	driverDSN, err := parseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing sqlite DSN: %w", err)
	}
	if strings.TrimSpace(slot) == "" {
		slot = defaultSlot
	}

	db, err := sql.Open("sqlite", driverDSN)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if driverDSN == memoryDSN {
		// each connection to :memory: is its own database
		db.SetMaxOpenConns(1)
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
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	c := &Client{db: db, slot: slot, path: driverDSN}
	if err := c.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.db.Close()
}
