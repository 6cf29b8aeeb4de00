package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS snapshots (
    slot          TEXT PRIMARY KEY,
    document      BYTEA NOT NULL,
    document_hash TEXT NOT NULL,
    saved_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
