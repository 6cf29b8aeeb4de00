package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"worldsave/internal/store"
)

var _ store.Store = (*Client)(nil)

// Client keeps the snapshot at one fixed path. Writes are not atomic.
type Client struct {
	path string
}

func New(path string) (*Client, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	return &Client{path: filepath.Clean(path)}, nil
}

func (c *Client) Path() string {
	return c.path
}

func (c *Client) Close(ctx context.Context) error {
	return nil
}

func (c *Client) Save(ctx context.Context, document []byte) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(c.path, document, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

func (c *Client) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

func (c *Client) Stat(ctx context.Context) (*store.Info, error) {
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}
	data, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &store.Info{
		Location: c.path,
		Size:     info.Size(),
		Hash:     store.Hash(data),
		SavedAt:  info.ModTime(),
	}, nil
}
