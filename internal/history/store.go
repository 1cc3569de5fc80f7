package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCollectionKey is the key the main history is stored under.
const DefaultCollectionKey = "shortenedUrls"

// Store keeps the ordered history of conversions, newest first, and mirrors it
// into a Backend after every mutation.
type Store struct {
	mu      sync.RWMutex
	records []Record
	key     string
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore creates a store for the given collection key and loads whatever
// was previously persisted under it. A missing or unreadable collection
// leaves the store empty.
func NewStore(ctx context.Context, backend Backend, key string, logger *zap.Logger) *Store {
	s := &Store{
		records: []Record{},
		key:     key,
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}

	if err := s.Load(ctx); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Debug("no stored history", zap.String("key", key))
		} else {
			logger.Warn("failed to load history", zap.String("key", key), zap.Error(err))
		}
	}

	return s
}

// Key returns the collection key the store persists under.
func (s *Store) Key() string {
	return s.key
}

// Add inserts rec at the front of the history and persists the collection.
// A zero CreatedAt is set to the current time. The record stays in memory
// even when persisting fails.
func (s *Store) Add(ctx context.Context, rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append([]Record{rec}, s.records...)

	return s.saveLocked(ctx)
}

// Get returns the record at index, or false when index is out of range.
func (s *Store) Get(index int) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.records) {
		return Record{}, false
	}

	return s.records[index], true
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// List returns a copy of all records, newest first.
func (s *Store) List() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)

	return out
}

// Clear removes every record and persists the empty collection.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []Record{}

	return s.saveLocked(ctx)
}

// Load replaces the in-memory records with the persisted collection.
// On any failure the current records are left untouched.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode history %q: %w", s.key, err)
	}

	if records == nil {
		records = []Record{}
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return nil
}

// Save writes the whole collection to the backend.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}

	if err := s.backend.Set(ctx, s.key, data); err != nil {
		s.logger.Error("failed to save history",
			zap.String("key", s.key),
			zap.Int("count", len(s.records)),
			zap.Error(err),
		)

		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}
