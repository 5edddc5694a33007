package testsupport

import (
	"context"
	"testing"

	"github.com/tejash-9/spacedrive/internal/config"
	"github.com/tejash-9/spacedrive/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewLocation registers a location rooted at path for tests.
func NewLocation(t testing.TB, store *library.Store, name, path string) *library.Location {
	t.Helper()

	loc, err := store.CreateLocation(context.Background(), name, path)
	if err != nil {
		t.Fatalf("store.CreateLocation: %v", err)
	}
	return loc
}
