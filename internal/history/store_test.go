package history

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_AppendAndLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Latest(ctx); !errors.Is(err, ErrNoBuilds) {
		t.Fatalf("expected ErrNoBuilds, got %v", err)
	}

	start := time.Now().Add(-time.Minute).Truncate(time.Second)
	rec := Record{
		BuildID:    "b-1",
		StartedAt:  start,
		FinishedAt: start.Add(30 * time.Second),
		Outcome:    "success",
		ReportJSON: []byte(`{"ok":true}`),
	}
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if latest.BuildID != "b-1" || latest.Outcome != "success" {
		t.Errorf("unexpected record: %+v", latest)
	}
	if !latest.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", latest.StartedAt, start)
	}
	if string(latest.ReportJSON) != `{"ok":true}` {
		t.Errorf("ReportJSON = %s", latest.ReportJSON)
	}
}

func TestStore_RecentOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for _, id := range []string{"b-1", "b-2", "b-3"} {
		rec := Record{BuildID: id, StartedAt: now, FinishedAt: now, Outcome: "success"}
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append(%s) failed: %v", id, err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].BuildID != "b-3" || records[1].BuildID != "b-2" {
		t.Errorf("unexpected order: %s, %s", records[0].BuildID, records[1].BuildID)
	}
}
