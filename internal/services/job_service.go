package services

import (
	"context"
	"fmt"
	"time"

	"restaurant_backend/internal/metrics"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repository"

	"go.uber.org/zap"
)

// JobService runs durable delayed jobs. Any number of instances may sweep
// the same table; due rows are claimed with SKIP LOCKED.
type JobService interface {
	Run(ctx context.Context) error
	SweepOnce(ctx context.Context) (int, error)
}

type JobSettings struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

type jobService struct {
	jobs     repository.ScheduledJobRepository
	orders   OrderService
	settings JobSettings
	logger   *zap.Logger
	now      func() time.Time
}

func NewJobService(jobs repository.ScheduledJobRepository, orders OrderService, settings JobSettings, logger *zap.Logger) JobService {
	if settings.Interval <= 0 {
		settings.Interval = 2 * time.Second
	}
	if settings.BatchSize <= 0 {
		settings.BatchSize = 50
	}
	if settings.MaxAttempts <= 0 {
		settings.MaxAttempts = 5
	}
	return &jobService{
		jobs:     jobs,
		orders:   orders,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *jobService) Run(ctx context.Context) error {
	s.logger.Info("job sweeper started", zap.Duration("interval", s.settings.Interval))
	ticker := time.NewTicker(s.settings.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("job sweeper stopped")
			return nil
		case <-ticker.C:
			n, err := s.SweepOnce(ctx)
			if err != nil && ctx.Err() == nil {
				s.logger.Error("job sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Debug("job sweep finished", zap.Int("processed", n))
			}
		}
	}
}

func (s *jobService) SweepOnce(ctx context.Context) (int, error) {
	return s.jobs.ProcessDue(ctx, s.now(), s.settings.BatchSize, s.settings.MaxAttempts, s.handle)
}

func (s *jobService) handle(ctx context.Context, job models.ScheduledJob) error {
	switch job.Kind {
	case models.JobAutoComplete:
		changed, err := s.orders.AutoComplete(ctx, job.SaleID)
		if err != nil {
			metrics.JobsProcessed.WithLabelValues(job.Kind, "error").Inc()
			s.logger.Warn("auto-complete job failed",
				zap.Uint("job_id", job.ID),
				zap.Uint("order_id", job.SaleID),
				zap.Int("attempt", job.Attempts+1),
				zap.Error(err))
			return err
		}
		outcome := "skipped"
		if changed {
			outcome = "completed"
		}
		metrics.JobsProcessed.WithLabelValues(job.Kind, outcome).Inc()
		return nil
	default:
		metrics.JobsProcessed.WithLabelValues(job.Kind, "unknown").Inc()
		return fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
