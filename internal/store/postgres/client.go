package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"worldsave/internal/store"
)

var _ store.Store = (*Client)(nil)

const defaultSlot = "default"

type Client struct {
	pool *pgxpool.Pool
	slot string
}

func New(ctx context.Context, dsn, slot string) (*Client, error) {
	if strings.TrimSpace(slot) == "" {
		slot = defaultSlot
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	c := &Client{pool: pool, slot: slot}
	if err := c.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) Close(ctx context.Context) error {
	c.pool.Close()
	return nil
}
