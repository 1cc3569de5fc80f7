package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/serroba/tinyurl-history/internal/history"
)

// FileStore keeps each collection in its own JSON file under a directory.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file-backed history backend rooted at dir,
// creating the directory when needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (f *FileStore) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, ".history-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}

	// Rename keeps readers from ever seeing a partial collection.
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		return fmt.Errorf("replace history: %w", err)
	}

	return nil
}

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	value, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, history.ErrNotFound
		}

		return nil, err
	}

	return value, nil
}

// Ping checks that the data directory is still reachable.
func (f *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}

	return nil
}

// path maps a collection key to a fixed-length file name, whatever the key's
// length or characters.
func (f *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))

	return filepath.Join(f.dir, hex.EncodeToString(sum[:])+".json")
}

var _ history.Backend = (*FileStore)(nil)
