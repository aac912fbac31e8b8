package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"video_syncer/internal/domain"
	"video_syncer/internal/service"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

// Pipeline fills missing transcripts after a sync.
type Pipeline interface {
	Run(ctx context.Context) (*domain.PipelineStats, error)
}

// Snapshotter reads the canonical id set of every table.
type Snapshotter interface {
	Snapshot(ctx context.Context) (service.Snapshot, error)
}

// Notifier announces new rows. Failures are logged and never stop the loop.
type Notifier interface {
	Notify(ctx context.Context, rows domain.NewRows) error
}

// DefaultPollStep bounds how long Stop takes to be observed during the wait.
const DefaultPollStep = 2 * time.Second

// Scheduler runs sync and pipeline passes back to back. A cycle never
// overlaps the previous one.
type Scheduler struct {
	syncer    Syncer
	pipeline  Pipeline
	snapshots Snapshotter
	notifier  Notifier
	interval  time.Duration
	pollStep  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewScheduler builds a scheduler. pipeline and notifier may be nil.
func NewScheduler(
	syncer Syncer,
	pipeline Pipeline,
	snapshots Snapshotter,
	notifier Notifier,
	interval time.Duration,
	pollStep time.Duration,
	logger *slog.Logger,
) *Scheduler {
	if pollStep <= 0 {
		pollStep = DefaultPollStep
	}
	return &Scheduler{
		syncer:    syncer,
		pipeline:  pipeline,
		snapshots: snapshots,
		notifier:  notifier,
		interval:  interval,
		pollStep:  pollStep,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start runs cycles until ctx is cancelled or Stop is called. Stop is
// observed between cycles and during the wait; a cycle already running
// finishes under ctx. A validation error from the syncer ends the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	stopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return context.Canceled
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("scheduler started", "interval", s.interval, "poll_step", s.pollStep)

	for {
		if err := stopCtx.Err(); err != nil {
			s.logger.Info("scheduler stopped")
			return err
		}

		next := time.Now().Add(s.interval)
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("scheduler aborted", "error", err)
			return err
		}

		if err := s.waitUntil(stopCtx, next); err != nil {
			s.logger.Info("scheduler stopped")
			return err
		}
	}
}

// Stop ends a running Start after its current cycle. A Stop that comes before
// Start makes Start return at once. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
}

// RunOnce runs one cycle: snapshot, sync, pipeline, diff and notify.
// It returns the notification that was sent, or nil when nothing was new.
// A validation error from the syncer skips the rest of the cycle and is
// returned; every other failure is logged.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.NewRows, error) {
	cycleID := uuid.NewString()
	logger := s.logger.With("cycle", cycleID)
	startTime := time.Now()

	before, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error("snapshot before cycle failed, notifications skipped", "error", err)
	}

	stats, err := s.syncer.Sync(ctx)
	switch {
	case errors.Is(err, domain.ErrValidation):
		logger.Error("sync rejected, cycle skipped", "error", err)
		return nil, err
	case err != nil:
		logger.Error("sync failed", "error", err)
	default:
		logger.Info("sync finished", "inserted", stats.Inserted, "updated", stats.Updated, "failed", stats.Failed)
	}

	if s.pipeline != nil {
		if stats, err := s.pipeline.Run(ctx); err != nil {
			logger.Error("pipeline failed", "error", err)
		} else {
			logger.Info("pipeline finished", "succeeded", stats.Succeeded, "failed", stats.Failed)
		}
	}

	var rows *domain.NewRows
	if before != nil {
		rows = s.diff(ctx, cycleID, before, logger)
	}

	logger.Info("cycle finished", "duration", time.Since(startTime))
	return rows, nil
}

func (s *Scheduler) diff(ctx context.Context, cycleID string, before service.Snapshot, logger *slog.Logger) *domain.NewRows {
	after, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		logger.Error("snapshot after cycle failed", "error", err)
		return nil
	}

	tables := after.NewIDs(before)
	if len(tables) == 0 {
		logger.Info("no new rows")
		return nil
	}

	tableIDs := make([]string, 0, len(tables))
	for id := range tables {
		tableIDs = append(tableIDs, id)
	}
	sort.Strings(tableIDs)

	rows := &domain.NewRows{
		CycleID:    cycleID,
		DetectedAt: time.Now().UTC(),
		Tables:     tables,
	}
	for _, id := range tableIDs {
		rows.IDs = append(rows.IDs, tables[id]...)
	}

	logger.Info("new rows detected", "tables", len(tables), "ids", len(rows.IDs))

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, *rows); err != nil {
			logger.Error("notification failed", "error", err)
		}
	}
	return rows
}

// waitUntil sleeps until deadline in pollStep slices and checks ctx between slices.
func (s *Scheduler) waitUntil(ctx context.Context, deadline time.Time) error {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}

		timer := time.NewTimer(min(remaining, s.pollStep))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
