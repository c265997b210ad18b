package testutil

import (
	"testing"
	"time"

	"github.com/abrezinsky/beastreader/internal/repository"
	"github.com/abrezinsky/beastreader/internal/tracks"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// NewTestCatalog returns the embedded default track catalog
func NewTestCatalog(t *testing.T) *tracks.Catalog {
	t.Helper()

	catalog, err := tracks.Default()
	if err != nil {
		t.Fatalf("failed to load default catalog: %v", err)
	}
	return catalog
}

// FixedClock returns a clock function that always reports the given instant
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

// NYTime builds a wall-clock instant in the catalog's timezone
func NYTime(t *testing.T, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}
