// Package scheduler wires up the cron job that periodically recalculates the
// alignment of every employment record.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"jobmate/alignment-service/internal/employment"
)

// ErrAlreadyRunning is returned by RunOnce while another run is in progress.
var ErrAlreadyRunning = errors.New("recalculation already running")

// Recalculator is implemented by employment.Service.
type Recalculator interface {
	Recalculate(ctx context.Context, report func(employment.Progress)) (employment.Progress, error)
}

// Scheduler wraps robfig/cron and manages the recalculation loop.
type Scheduler struct {
	cron     *cron.Cron
	recalc   Recalculator
	progress ProgressStore
	spec     string // cron spec, e.g. "@every 24h"
	logger   *slog.Logger
	running  atomic.Bool
}

// New creates a Scheduler firing on spec. progress may be nil.
func New(recalc Recalculator, progress ProgressStore, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if progress == nil {
		progress = NopProgress{}
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog))),
		recalc:   recalc,
		progress: progress,
		spec:     spec,
		logger:   logger,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.logger.Error("scheduled recalculation failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("cron started", "spec", s.spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("cron stopped")
}

// RunOnce runs a full recalculation now, recording progress as it goes.
// Concurrent calls return ErrAlreadyRunning.
func (s *Scheduler) RunOnce(ctx context.Context) (employment.Progress, error) {
	if !s.running.CompareAndSwap(false, true) {
		return employment.Progress{}, ErrAlreadyRunning
	}
	defer s.running.Store(false)

	s.logger.Info("recalculation started")
	p, err := s.recalc.Recalculate(ctx, func(p employment.Progress) {
		if err := s.progress.Save(ctx, p); err != nil {
			s.logger.Warn("save recalculation progress failed", "err", err)
		}
	})
	if err != nil {
		return p, err
	}
	s.logger.Info("recalculation complete", "processed", p.Processed, "updated", p.Updated, "skipped", p.Skipped)
	return p, nil
}
