package sessions_test

import (
	"context"
	"errors"
	"testing"

	"gymforge/internal/sessions"
	"gymforge/internal/testsupport"
)

func TestStoreLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	session, err := store.Add(ctx, "abc123", "paint tutorial", sessions.KindRecorded)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if session.Status != sessions.StatusPending {
		t.Fatalf("expected pending, got %s", session.Status)
	}

	if err := store.MarkProcessing(ctx, "abc123"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := store.MarkCompleted(ctx, "abc123", "/tmp/out.jsonl", 42, 17, 1234); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}

	got, err := store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != sessions.StatusCompleted {
		t.Fatalf("expected completed, got %s", got.Status)
	}
	if got.EventCount != 42 || got.MessageCount != 17 || got.TokenCount != 1234 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.DatasetPath != "/tmp/out.jsonl" {
		t.Fatalf("unexpected dataset path: %q", got.DatasetPath)
	}

	if err := store.Reset(ctx, "abc123"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, err = store.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get after reset: %v", err)
	}
	if got.Status != sessions.StatusPending || got.TokenCount != 0 {
		t.Fatalf("reset did not clear state: %+v", got)
	}
}

func TestMarkFailedRecordsCause(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, err := store.Add(ctx, "sess1", "", sessions.KindSynthetic); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.MarkFailed(ctx, "sess1", errors.New("boom")); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, err := store.Get(ctx, "sess1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != sessions.StatusFailed || got.ErrorMessage != "boom" {
		t.Fatalf("unexpected failure state: %+v", got)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.Add(ctx, id, "", sessions.KindRecorded); err != nil {
			t.Fatalf("Add %s: %v", id, err)
		}
	}
	if err := store.MarkProcessing(ctx, "b"); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}

	pending, err := store.List(ctx, sessions.StatusPending)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending sessions, got %d", len(pending))
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
}

func TestGetUnknownSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, sessions.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
