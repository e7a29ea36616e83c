package testsupport

import (
	"testing"

	"lidarcal/internal/archive"
	"lidarcal/internal/config"
)

// MustOpenArchive opens the archive configured by cfg and registers cleanup.
func MustOpenArchive(t testing.TB, cfg *config.Config) *archive.Store {
	t.Helper()

	store, err := archive.Open(cfg.Paths.ArchivePath)
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
