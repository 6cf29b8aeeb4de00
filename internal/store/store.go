package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Load when the slot holds no snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// Store persists a single snapshot document. Save overwrites whatever the
// slot held before.
type Store interface {
	Close(ctx context.Context) error
	Save(ctx context.Context, document []byte) error
	Load(ctx context.Context) ([]byte, error)
	Stat(ctx context.Context) (*Info, error)
}

// Info describes the snapshot currently stored in the slot.
type Info struct {
	Location string
	Size     int64
	Hash     string
	SavedAt  time.Time
}
