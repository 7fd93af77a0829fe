package gc

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/relayhq/originproxy/pkg/cspreports"
	"github.com/relayhq/originproxy/pkg/ratelimit"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
)

func testSweeperDeps(t *testing.T) (*cspreports.Store, *ratelimit.Limiter, *logging.Logger) {
	t.Helper()
	store, err := cspreports.Open(filepath.Join(t.TempDir(), "csp_reports.db"))
	if err != nil {
		t.Fatalf("cspreports.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	limiter := ratelimit.New(3*time.Second, 10)
	logger, err := logging.New(logging.Config{Level: "error", Format: "json"})
	if err != nil {
		t.Fatalf("logging.New() error = %v", err)
	}
	return store, limiter, logger
}

func TestSweeperPrunesOldReports(t *testing.T) {
	store, limiter, logger := testSweeperDeps(t)
	ctx := context.Background()

	old := &cspreports.Report{ID: "old", ReceivedAt: time.Now().Add(-30 * 24 * time.Hour)}
	if err := store.Insert(ctx, old); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	sweeper := New(store, limiter, 14, "", logger)
	sweeper.sweep(ctx)

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() after sweep = %d, want 0", count)
	}
}

func TestSweeperEmptySchedulesSkipsStart(t *testing.T) {
	store, limiter, logger := testSweeperDeps(t)
	sweeper := New(store, limiter, 14, "", logger)

	if err := sweeper.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if sweeper.IsRunning() {
		t.Error("IsRunning() = true, want false when schedule is empty")
	}
}

func TestSweeperInvalidScheduleErrors(t *testing.T) {
	store, limiter, logger := testSweeperDeps(t)
	sweeper := New(store, limiter, 14, "not a cron expr", logger)

	if err := sweeper.Start(context.Background()); err == nil {
		t.Error("Start() error = nil, want error for invalid schedule")
	}
}

func TestSweeperStartsAndStops(t *testing.T) {
	store, limiter, logger := testSweeperDeps(t)
	sweeper := New(store, limiter, 14, "0 0 * * *", logger)

	ctx, cancel := context.WithCancel(context.Background())
	if err := sweeper.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !sweeper.IsRunning() {
		t.Error("IsRunning() = false, want true after Start")
	}

	cancel()
	sweeper.Stop()
	if sweeper.IsRunning() {
		t.Error("IsRunning() = true, want false after Stop")
	}
}
