package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"showdrop/internal/catalog"
)

func openStore(t *testing.T) *catalog.Store {
	t.Helper()

	store, err := catalog.OpenPath(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func intPtr(v int) *int { return &v }

func TestPutAndGetRoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ep := &catalog.Episode{
		Code:        "frieren-s2-ep11-1080p",
		SourceTitle: "Frieren S02E11 1080p.mkv",
		Season:      intPtr(2),
		Episode:     intPtr(11),
		Quality:     "1080p",
		MessageID:   42,
	}
	if err := store.Put(ctx, ep); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ep.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if ep.CreatedAt.IsZero() {
		t.Fatal("expected assigned created_at")
	}

	got, err := store.Get(ctx, "frieren-s2-ep11-1080p")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected episode, got nil")
	}
	if got.SourceTitle != ep.SourceTitle || got.MessageID != 42 || got.Quality != "1080p" {
		t.Fatalf("unexpected episode %+v", got)
	}
	if got.Season == nil || *got.Season != 2 || got.Episode == nil || *got.Episode != 11 {
		t.Fatalf("unexpected season/episode %+v", got)
	}
}

func TestPutDuplicateKeepsFirstRecord(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first := &catalog.Episode{Code: "some-show-ep1", SourceTitle: "first upload", Quality: "unknown", MessageID: 10}
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("Put: %v", err)
	}

	second := &catalog.Episode{Code: "some-show-ep1", SourceTitle: "second upload", Quality: "unknown", MessageID: 20}
	if err := store.Put(ctx, second); !errors.Is(err, catalog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := store.Get(ctx, "some-show-ep1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SourceTitle != "first upload" || got.MessageID != 10 {
		t.Fatalf("expected first record retained, got %+v", got)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(all))
	}
}

func TestGetAbsentReturnsNil(t *testing.T) {
	store := openStore(t)

	got, err := store.Get(context.Background(), "never-stored")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent code, got %+v", got)
	}
}

func TestListOrderedByCreation(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i, code := range []string{"show-ep1", "show-ep2", "show-ep3"} {
		ep := &catalog.Episode{Code: code, SourceTitle: code, Quality: "unknown", MessageID: int64(i + 1)}
		if err := store.Put(ctx, ep); err != nil {
			t.Fatalf("Put %s: %v", code, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(all))
	}
	for i, code := range []string{"show-ep1", "show-ep2", "show-ep3"} {
		if all[i].Code != code {
			t.Fatalf("position %d: expected %s, got %s", i, code, all[i].Code)
		}
	}
}

func TestCreatedSinceExcludesOlder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	old := &catalog.Episode{Code: "old-show-ep1", SourceTitle: "old", Quality: "unknown", MessageID: 1}
	if err := store.Put(ctx, old); err != nil {
		t.Fatalf("Put: %v", err)
	}
	cutoff := old.CreatedAt

	time.Sleep(5 * time.Millisecond)
	fresh := &catalog.Episode{Code: "new-show-ep1", SourceTitle: "new", Quality: "unknown", MessageID: 2}
	if err := store.Put(ctx, fresh); err != nil {
		t.Fatalf("Put: %v", err)
	}

	recent, err := store.CreatedSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("CreatedSince: %v", err)
	}
	if len(recent) != 1 || recent[0].Code != "new-show-ep1" {
		t.Fatalf("expected only the newer episode, got %+v", recent)
	}
}

func TestUpdateMissingReturnsNotFound(t *testing.T) {
	store := openStore(t)

	err := store.Update(context.Background(), &catalog.Episode{Code: "missing", Quality: "unknown"})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRewritesFields(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ep := &catalog.Episode{Code: "show-ep5", SourceTitle: "raw", Quality: "unknown", MessageID: 7}
	if err := store.Put(ctx, ep); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ep.MessageID = 99
	ep.Quality = "720p"
	if err := store.Update(ctx, ep); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := store.Get(ctx, "show-ep5")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MessageID != 99 || got.Quality != "720p" {
		t.Fatalf("update not persisted: %+v", got)
	}
}

func TestDeleteRemovesRow(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	ep := &catalog.Episode{Code: "show-ep9", SourceTitle: "raw", Quality: "unknown", MessageID: 3}
	if err := store.Put(ctx, ep); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "show-ep9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Get(ctx, "show-ep9")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatal("expected episode gone after delete")
	}

	if err := store.Delete(ctx, "show-ep9"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
