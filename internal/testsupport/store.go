package testsupport

import (
	"context"
	"testing"
	"time"

	"scdproc/internal/config"
	"scdproc/internal/history"
)

// MustOpenHistory opens the run ledger for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("history.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordRun inserts a successful run with the given counters.
func RecordRun(t testing.TB, store *history.Store, id string, startedAt time.Time, total, accepted int) history.Run {
	t.Helper()

	run := history.Run{
		ID:             id,
		StartedAt:      startedAt,
		Input:          "in.SCD",
		Output:         "out/" + id + ".SCD",
		Status:         history.StatusSucceeded,
		Total:          total,
		Accepted:       accepted,
		DroppedExpired: total - accepted,
	}
	if err := store.Record(context.Background(), run); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return run
}
