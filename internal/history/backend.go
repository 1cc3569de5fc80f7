package history

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Backend when nothing is stored under a key.
	ErrNotFound = errors.New("history not found")

	// ErrPersist wraps failures to write the history to its backend.
	ErrPersist = errors.New("failed to persist history")
)

// Backend is the key-value storage a Store mirrors its records into.
// One key holds the whole serialized collection.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
