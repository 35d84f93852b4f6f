package storage

import (
	"context"
	"time"

	"github.com/arjasari/pzemwatch/internal/config"

	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// RetentionSweeper deletes readings older than the configured retention
// window on a fixed schedule.
type RetentionSweeper struct {
	repo      *Repository
	retention time.Duration
	interval  time.Duration
	scheduler quartz.Scheduler
	logger    *zap.Logger
}

func NewRetentionSweeper(repo *Repository, cfg config.DatabaseConfig, logger *zap.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		repo:      repo,
		retention: time.Duration(cfg.RetentionHours) * time.Hour,
		interval:  time.Duration(cfg.SweepIntervalMinutes) * time.Minute,
		logger:    logger.With(zap.String("component", "retention")),
	}
}

func (s *RetentionSweeper) Start(ctx context.Context) error {
	s.scheduler = quartz.NewStdScheduler()
	s.scheduler.Start(ctx)

	sweep := job.NewFunctionJob(func(ctx context.Context) (int64, error) {
		cutoff := time.Now().Add(-s.retention)
		deleted, err := s.repo.PurgeBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error("retention sweep failed", zap.Error(err))
			return 0, err
		}
		if deleted > 0 {
			s.logger.Info("retention sweep", zap.Int64("deleted", deleted),
				zap.Time("cutoff", cutoff))
		}
		return deleted, nil
	})

	detail := quartz.NewJobDetail(sweep, quartz.NewJobKey("reading_retention_sweep"))
	return s.scheduler.ScheduleJob(detail, quartz.NewSimpleTrigger(s.interval))
}

func (s *RetentionSweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
