package engine_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusworks/letterflow/internal/config"
	"github.com/campusworks/letterflow/internal/engine"
	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/workflow"
	"github.com/campusworks/letterflow/pkg/lifecycle"
	"github.com/campusworks/letterflow/pkg/pagination"
)

// pollStore is a minimal letters.System for loop tests: it serves one
// eligible letter until the workflow transitions it, then reports idle.
type pollStore struct {
	mu      sync.Mutex
	record  *letters.Letter
	reports int
}

func (s *pollStore) Handler() *letters.Handler { return nil }

func (s *pollStore) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters letters.Filters,
) (*pagination.PageResult[letters.Letter], error) {
	return nil, nil
}

func (s *pollStore) Find(ctx context.Context, id uuid.UUID) (*letters.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil || s.record.ID != id {
		return nil, letters.ErrNotFound
	}
	copy := *s.record
	return &copy, nil
}

func (s *pollStore) PendingEvents(ctx context.Context, now time.Time) ([]letters.Letter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record != nil && s.record.Status == letters.StatusPrioritized {
		return []letters.Letter{*s.record}, nil
	}
	return nil, nil
}

func (s *pollStore) Update(ctx context.Context, id uuid.UUID, upd letters.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if upd.Status != nil {
		s.record.Status = *upd.Status
	}
	if upd.Stage != nil {
		s.record.Stage = *upd.Stage
	}
	if upd.Remarks != nil {
		s.record.Remarks = *upd.Remarks
	}
	if upd.ClearDeadline {
		s.record.ApprovalDeadline = nil
	} else if upd.ApprovalDeadline != nil {
		t := *upd.ApprovalDeadline
		s.record.ApprovalDeadline = &t
	}
	return nil
}

func (s *pollStore) Report(ctx context.Context) (*letters.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports++
	return &letters.Report{
		StageLoad:    map[string]int{},
		StatusTotals: map[string]int{},
		GeneratedAt:  time.Now(),
	}, nil
}

func (s *pollStore) status() letters.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Status
}

func (s *pollStore) reportCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports
}

type noopMailer struct{}

func (noopMailer) Send(ctx context.Context, to string, letter *letters.Letter) error { return nil }
func (noopMailer) StageAddress(stage letters.Stage) string                           { return "stage@test" }
func (noopMailer) ClerkAddress(dept string) string                                   { return "clerk@test" }
func (noopMailer) AdminAddress() string                                              { return "admin@test" }
func (noopMailer) Enabled() bool                                                     { return false }

type noopExtractor struct{}

func (noopExtractor) Extract(ctx context.Context, key string) string { return "" }
func (noopExtractor) Simulated() bool                                { return true }

func testEngineConfig(t *testing.T) *config.EngineConfig {
	t.Helper()

	cfg := &config.EngineConfig{
		PollInterval:   "5ms",
		ErrorBackoff:   "5ms",
		ApprovalWindow: "48h",
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestEngineProcessesAndIdles(t *testing.T) {
	store := &pollStore{
		record: &letters.Letter{
			ID:             uuid.New(),
			Status:         letters.StatusPrioritized,
			Classification: letters.ClassificationPermission,
		},
	}

	logger := slog.New(slog.DiscardHandler)
	cfg := testEngineConfig(t)
	rt := &workflow.Runtime{
		Letters:        store,
		Extraction:     noopExtractor{},
		Mail:           noopMailer{},
		Logger:         logger,
		ApprovalWindow: cfg.ApprovalWindowDuration(),
	}

	lc := lifecycle.New()
	engine.New(rt, store, cfg, logger).Start(lc)

	// The eligible letter is drained into the pipeline.
	waitFor(t, func() bool {
		return store.status() == letters.StatusPending
	}, "letter to enter the pipeline")

	// Idle cycles log the health report.
	waitFor(t, func() bool {
		return store.reportCount() >= 2
	}, "idle health reports")

	if err := lc.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
