package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"worldsave/internal/store"
)

func (c *Client) Save(ctx context.Context, document []byte) error {
	query := `
	INSERT INTO snapshots (slot, document, document_hash, saved_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (slot) DO UPDATE SET
		document = excluded.document,
		document_hash = excluded.document_hash,
		saved_at = excluded.saved_at
	`
	savedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := c.db.ExecContext(ctx, query, c.slot, document, store.Hash(document), savedAt); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (c *Client) Load(ctx context.Context) ([]byte, error) {
	var document []byte
	err := c.db.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE slot = ?`, c.slot).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return document, nil
}

func (c *Client) Stat(ctx context.Context) (*store.Info, error) {
	var size int64
	var hash, savedAt string
	err := c.db.QueryRowContext(ctx,
		`SELECT length(document), document_hash, saved_at FROM snapshots WHERE slot = ?`,
		c.slot,
	).Scan(&size, &hash, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	parsed, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing saved_at %q: %w", savedAt, err)
	}
	return &store.Info{
		Location: c.path + "#" + c.slot,
		Size:     size,
		Hash:     hash,
		SavedAt:  parsed,
	}, nil
}
