// Package store persists the lead collection as a single JSON snapshot.
//
// The collection is the client-of-record: every save fully re-serializes the
// whole array under one key, so crash consistency is "last fully written
// snapshot wins". A legacy mirror key is written alongside for older readers.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"vanguard_backend/internal/leads/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// SnapshotKey is the primary key holding the serialized lead array.
	SnapshotKey = "insurance_leads"
	// LegacySnapshotKey is the historical mirror kept for older readers.
	LegacySnapshotKey = "leads"
)

// SnapshotStore reads and writes the full lead collection.
type SnapshotStore struct {
	rdb redis.UniversalClient
}

// New creates a snapshot store over the given redis client.
func New(rdb redis.UniversalClient) *SnapshotStore {
	return &SnapshotStore{rdb: rdb}
}

// Load returns the current snapshot. A missing key is an empty collection,
// not an error.
func (s *SnapshotStore) Load(ctx context.Context) ([]domain.LocalLeadRecord, error) {
	raw, err := s.rdb.Get(ctx, SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.LocalLeadRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snapshot []domain.LocalLeadRecord
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

// Save overwrites both keys with the full collection in one pipeline. There
// are no partial or append writes.
func (s *SnapshotStore) Save(ctx context.Context, snapshot []domain.LocalLeadRecord) error {
	if snapshot == nil {
		snapshot = []domain.LocalLeadRecord{}
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, SnapshotKey, raw, 0)
	pipe.Set(ctx, LegacySnapshotKey, raw, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
