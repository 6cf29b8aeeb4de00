package sqlite

import (
	"context"
	"fmt"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS snapshots (
	slot          TEXT PRIMARY KEY,
	document      BLOB NOT NULL,
	document_hash TEXT NOT NULL,
	saved_at      TEXT NOT NULL
);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
