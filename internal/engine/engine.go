// Package engine runs the polling scheduler: a single worker that repeatedly
// queries for eligible letters and runs the workflow chain for each, strictly
// serialized. An idle cycle logs a pipeline health report and sleeps briefly;
// a failed cycle logs and backs off longer. The loop only stops when the
// lifecycle context is cancelled.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusworks/letterflow/internal/config"
	"github.com/campusworks/letterflow/internal/letters"
	"github.com/campusworks/letterflow/internal/workflow"
	"github.com/campusworks/letterflow/pkg/lifecycle"
)

// Engine is the letter processing scheduler.
type Engine struct {
	runtime *workflow.Runtime
	letters letters.System
	cfg     *config.EngineConfig
	logger  *slog.Logger
}

func New(rt *workflow.Runtime, sys letters.System, cfg *config.EngineConfig, logger *slog.Logger) *Engine {
	return &Engine{
		runtime: rt,
		letters: sys,
		cfg:     cfg,
		logger:  logger.With("system", "engine"),
	}
}

// Start launches the poll loop on the lifecycle context. The loop goroutine
// registers as a shutdown hook so process termination waits for the current
// record chain to finish.
func (e *Engine) Start(lc *lifecycle.Coordinator) {
	lc.OnShutdown(func() {
		e.run(lc.Context())
	})
}

func (e *Engine) run(ctx context.Context) {
	e.logger.Info("poll loop started",
		"poll_interval", e.cfg.PollInterval,
		"error_backoff", e.cfg.ErrorBackoff,
	)

	for {
		if ctx.Err() != nil {
			e.logger.Info("poll loop stopped")
			return
		}

		if err := e.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				e.logger.Info("poll loop stopped")
				return
			}

			e.logger.Error("poll cycle failed", "error", err)
			if !sleep(ctx, e.cfg.ErrorBackoffDuration()) {
				return
			}
		}
	}
}

// cycle runs one eligibility query and drains its batch. A processing error
// aborts the remainder of the batch; the next query naturally retries
// whatever is still eligible.
func (e *Engine) cycle(ctx context.Context) error {
	pending, err := e.letters.PendingEvents(ctx, time.Now())
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		e.report(ctx)
		sleep(ctx, e.cfg.PollIntervalDuration())
		return nil
	}

	e.logger.Info("processing batch", "count", len(pending))

	for _, letter := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		e.logger.Info("processing letter",
			"letter_id", letter.ID,
			"status", letter.Status,
		)

		if err := workflow.Execute(ctx, e.runtime, letter.ID); err != nil {
			return err
		}
	}

	return nil
}

// report logs the admin health check: pipeline bottlenecks and status totals.
func (e *Engine) report(ctx context.Context) {
	report, err := e.letters.Report(ctx)
	if err != nil {
		e.logger.Warn("health report failed", "error", err)
		return
	}

	e.logger.Info("system health check",
		"stage_load", report.StageLoad,
		"status_totals", report.StatusTotals,
	)
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
