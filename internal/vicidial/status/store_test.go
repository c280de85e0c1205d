package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"vanguard_backend/internal/vicidial/transport"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, ttl), mr
}

func TestStore_GetWithoutSyncReturnsErrNoSync(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	_, err := s.Get(context.Background())
	if !errors.Is(err, ErrNoSync) {
		t.Fatalf("expected ErrNoSync, got %v", err)
	}
}

func TestStore_ProgressRoundTrip(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Progress(ctx, 2, 8, "processing lead 2 of 8"); err != nil {
		t.Fatalf("Progress: %v", err)
	}

	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := transport.SyncStatus{
		Status:         StatusRunning,
		Percentage:     25,
		Message:        "processing lead 2 of 8",
		ProcessedLeads: 2,
		TotalLeads:     8,
	}
	if *got != want {
		t.Fatalf("status = %+v, want %+v", *got, want)
	}
}

func TestStore_TerminalStates(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if err := s.Complete(ctx, 5, "imported 5 leads"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	got, err := s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusCompleted || got.Percentage != 100 || got.ProcessedLeads != 5 {
		t.Fatalf("completed status = %+v", got)
	}

	if err := s.Fail(ctx, "bridge unreachable"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	got, err = s.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusError || got.Message != "bridge unreachable" {
		t.Fatalf("error status = %+v", got)
	}
}

func TestStore_StatusExpiresAfterTTL(t *testing.T) {
	s, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Progress(ctx, 1, 2, "halfway"); err != nil {
		t.Fatalf("Progress: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := s.Get(ctx); !errors.Is(err, ErrNoSync) {
		t.Fatalf("expected the status to expire, got %v", err)
	}
}

func TestStore_ZeroTotalAvoidsDivideByZero(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	if err := s.Progress(context.Background(), 0, 0, "starting"); err != nil {
		t.Fatalf("Progress: %v", err)
	}
	got, err := s.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Percentage != 0 {
		t.Fatalf("percentage = %d, want 0", got.Percentage)
	}
}
