package ingest

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pruner removes expired jobs after each cycle.
type Pruner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps robfig/cron and manages the ingest loop.
type Scheduler struct {
	cron     *cron.Cron
	worker   *Worker
	rotation *Rotation
	pruner   Pruner
	spec     string // cron spec, e.g. "@every 6h"
	logger   *zap.Logger
}

// NewScheduler creates a Scheduler that fires every intervalHours hours.
// pruner may be nil.
func NewScheduler(worker *Worker, rotation *Rotation, pruner Pruner, intervalHours int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		worker:   worker,
		rotation: rotation,
		pruner:   pruner,
		spec:     fmt.Sprintf("@every %dh", intervalHours),
		logger:   logger,
	}
}

// Spec is the cron schedule.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the job and starts the scheduler. Also runs one cycle
// immediately so the feed is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("ingest cron started", zap.String("spec", s.spec))

	go s.RunCycle(ctx)
	return nil
}

// Stop halts the scheduler and waits for a running cycle to finish or ctx
// to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("ingest cron stopped")
}

// RunCycle ingests the next term in the rotation, then prunes expired jobs.
func (s *Scheduler) RunCycle(ctx context.Context) {
	term := s.rotation.Next()
	if term == "" {
		s.logger.Warn("no ingest terms configured, nothing to fetch")
		return
	}

	if _, err := s.worker.Run(ctx, term); err != nil {
		s.logger.Error("ingest run failed", zap.String("term", term), zap.Error(err))
	}

	if s.pruner == nil {
		return
	}
	n, err := s.pruner.DeleteExpired(ctx)
	if err != nil {
		s.logger.Warn("prune expired jobs failed", zap.Error(err))
		return
	}
	s.logger.Info("expired jobs pruned", zap.Int64("deleted", n))
}
