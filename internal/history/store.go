// Package history maintains the ordered, deduplicated collection of past
// classifications, mirrored through the persistence collaborator.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ecosnap/ecosnap/internal/model"
	"github.com/ecosnap/ecosnap/internal/service"
)

// DefaultKey is the fixed persistence key for the history blob.
const DefaultKey = "ecosnap.history"

// Store holds the in-memory history collection, most recent first. Every
// mutation is mirrored to the KV collaborator before it returns.
type Store struct {
	kv      service.KVStore
	key     string
	records []model.ClassificationRecord
}

// NewStore creates a history store backed by the given KV collaborator.
func NewStore(kv service.KVStore) *Store {
	return &Store{
		kv:  kv,
		key: DefaultKey,
	}
}

// Load reads the persisted collection. Missing or corrupt stored data yields
// an empty collection; corruption is logged, never surfaced as an error.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if !ok {
		s.records = nil
		return nil
	}

	var records []model.ClassificationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		slog.Warn("Stored history is corrupt, starting with an empty collection",
			"key", s.key,
			"error", err)
		s.records = nil
		return nil
	}

	s.records = records
	return nil
}

// Append upserts a record at the front of the collection. A record with an
// id already present replaces the old entry; the collection size does not
// change in that case.
func (s *Store) Append(ctx context.Context, record model.ClassificationRecord) error {
	updated := make([]model.ClassificationRecord, 0, len(s.records)+1)
	updated = append(updated, record)
	for _, existing := range s.records {
		if existing.ID != record.ID {
			updated = append(updated, existing)
		}
	}
	s.records = updated

	return s.persist(ctx)
}

// Remove deletes the entry with the given id; no-op when absent.
func (s *Store) Remove(ctx context.Context, id string) error {
	found := false
	updated := s.records[:0]
	for _, existing := range s.records {
		if existing.ID == id {
			found = true
			continue
		}
		updated = append(updated, existing)
	}
	if !found {
		return nil
	}
	s.records = updated

	return s.persist(ctx)
}

// Clear empties the collection.
func (s *Store) Clear(ctx context.Context) error {
	s.records = nil
	return s.persist(ctx)
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (model.ClassificationRecord, bool) {
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.ClassificationRecord{}, false
}

// Entries returns a copy of the collection in its invariant order,
// most recent first.
func (s *Store) Entries() []model.ClassificationRecord {
	out := make([]model.ClassificationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of history entries.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}
