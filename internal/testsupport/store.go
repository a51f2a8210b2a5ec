package testsupport

import (
	"context"
	"testing"

	"showdrop/internal/catalog"
	"showdrop/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutEpisode inserts an episode for tests using the provided store.
func PutEpisode(t testing.TB, store *catalog.Store, code string, messageID int64) *catalog.Episode {
	t.Helper()

	ep := &catalog.Episode{
		Code:        code,
		SourceTitle: code,
		Quality:     "unknown",
		MessageID:   messageID,
	}
	if err := store.Put(context.Background(), ep); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return ep
}
