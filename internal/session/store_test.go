package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"lectern/internal/testsupport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	sess := &Session{
		ID:              "abc-123",
		DurationMS:      90_000,
		ChunkCount:      4,
		ScreenshotCount: 2,
		Language:        "en",
	}
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Get(ctx, "abc-123")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusRecorded {
		t.Fatalf("status = %q, want %q", got.Status, StatusRecorded)
	}
	if got.ChunkCount != 4 || got.ScreenshotCount != 2 {
		t.Fatalf("counts = %d/%d", got.ChunkCount, got.ScreenshotCount)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not persisted")
	}
}

func TestGetMissingSession(t *testing.T) {
	store := openStore(t)

	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, &Session{}); err == nil {
		t.Fatal("expected error for empty id")
	}
	if err := store.Create(ctx, &Session{ID: "x", Status: Status("bogus")}); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	older := &Session{ID: "older", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &Session{ID: "newer"}
	if err := store.Create(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if err := store.Create(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}
	if err := store.SetStatus(ctx, "older", StatusBuilt); err != nil {
		t.Fatalf("set status: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list returned %d sessions", len(all))
	}
	if all[0].ID != "newer" {
		t.Fatalf("first session = %q, want newest first", all[0].ID)
	}

	built, err := store.List(ctx, StatusBuilt)
	if err != nil {
		t.Fatalf("list built: %v", err)
	}
	if len(built) != 1 || built[0].ID != "older" {
		t.Fatalf("built filter returned %+v", built)
	}
}

func TestLifecycleUpdates(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, &Session{ID: "s1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.SetStatus(ctx, "s1", StatusTranscribing); err != nil {
		t.Fatalf("set status: %v", err)
	}
	if err := store.MarkFailed(ctx, "s1", "no audio file"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	got, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusFailed || got.ErrorMessage != "no audio file" {
		t.Fatalf("after failure: %+v", got)
	}

	if err := store.MarkBuilt(ctx, "s1", "/lectures/s1.html"); err != nil {
		t.Fatalf("mark built: %v", err)
	}
	got, err = store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusBuilt {
		t.Fatalf("status = %q", got.Status)
	}
	if got.LecturePath != "/lectures/s1.html" {
		t.Fatalf("lecture path = %q", got.LecturePath)
	}
	if got.ErrorMessage != "" {
		t.Fatalf("error message not cleared: %q", got.ErrorMessage)
	}
}

func TestUpdateMissingSession(t *testing.T) {
	store := openStore(t)

	err := store.SetStatus(context.Background(), "ghost", StatusBuilt)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Create(ctx, &Session{ID: "gone"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
