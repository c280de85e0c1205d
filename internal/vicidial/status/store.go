// Package status tracks background sync progress in redis so clients can
// poll it. Entries expire after a configured TTL, which bounds how long a
// client can keep polling a dead sync.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vanguard_backend/internal/vicidial/transport"

	"github.com/redis/go-redis/v9"
)

const statusKey = "vicidial:sync_status"

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ErrNoSync is returned when no sync has run within the TTL window.
var ErrNoSync = errors.New("no sync in progress")

// Store persists the single mutable sync-status object.
type Store struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func New(rdb redis.UniversalClient, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Set overwrites the status. Every write refreshes the TTL so a live sync
// never expires mid-run.
func (s *Store) Set(ctx context.Context, status transport.SyncStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode sync status: %w", err)
	}
	if err := s.rdb.Set(ctx, statusKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save sync status: %w", err)
	}
	return nil
}

// Get returns the current status, or ErrNoSync when none is stored.
func (s *Store) Get(ctx context.Context) (*transport.SyncStatus, error) {
	raw, err := s.rdb.Get(ctx, statusKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSync
	}
	if err != nil {
		return nil, fmt.Errorf("load sync status: %w", err)
	}

	var status transport.SyncStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("decode sync status: %w", err)
	}
	return &status, nil
}

// Progress is a convenience writer for mid-run updates.
func (s *Store) Progress(ctx context.Context, processed, total int, message string) error {
	percentage := 0
	if total > 0 {
		percentage = processed * 100 / total
	}
	return s.Set(ctx, transport.SyncStatus{
		Status:         StatusRunning,
		Percentage:     percentage,
		Message:        message,
		ProcessedLeads: processed,
		TotalLeads:     total,
	})
}

// Complete records the terminal success state.
func (s *Store) Complete(ctx context.Context, total int, message string) error {
	return s.Set(ctx, transport.SyncStatus{
		Status:         StatusCompleted,
		Percentage:     100,
		Message:        message,
		ProcessedLeads: total,
		TotalLeads:     total,
	})
}

// Fail records the terminal error state.
func (s *Store) Fail(ctx context.Context, message string) error {
	return s.Set(ctx, transport.SyncStatus{
		Status:  StatusError,
		Message: message,
	})
}
