package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"worldsave/internal/store"
)

func (c *Client) Save(ctx context.Context, document []byte) error {
	query := `
INSERT INTO snapshots (slot, document, document_hash, saved_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (slot) DO UPDATE SET
    document = EXCLUDED.document,
    document_hash = EXCLUDED.document_hash,
    saved_at = now()
`
	if _, err := c.pool.Exec(ctx, query, c.slot, document, store.Hash(document)); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (c *Client) Load(ctx context.Context) ([]byte, error) {
	var document []byte
	err := c.pool.QueryRow(ctx, `SELECT document FROM snapshots WHERE slot = $1`, c.slot).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return document, nil
}

func (c *Client) Stat(ctx context.Context) (*store.Info, error) {
	info := &store.Info{Location: "postgres#" + c.slot}
	err := c.pool.QueryRow(ctx,
		`SELECT octet_length(document), document_hash, saved_at FROM snapshots WHERE slot = $1`,
		c.slot,
	).Scan(&info.Size, &info.Hash, &info.SavedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	return info, nil
}
