package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule runs nightly at 00:30.
const DefaultSchedule = "0 30 0 * * *"

// ReportPruner drops persisted reports of removed runs.
type ReportPruner interface {
	DeleteByRunID(ctx context.Context, runID string) (int64, error)
}

type Options struct {
	BaseDir   string
	Retention time.Duration
	Schedule  string
	Reports   ReportPruner
	Logger    *zap.Logger
}

type Scheduler struct {
	opts Options
	cron *cron.Cron
	now  func() time.Time
}

func NewScheduler(opts Options) *Scheduler {
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Retention <= 0 {
		opts.Retention = 7 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Scheduler{opts: opts, now: time.Now}
}

// Start registers the cleanup job and starts the cron loop.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(s.opts.Schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.opts.Logger.Error("cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", s.opts.Schedule, err)
	}
	s.cron = c
	c.Start()
	s.opts.Logger.Info("cleanup scheduler started",
		zap.String("schedule", s.opts.Schedule),
		zap.Duration("retention", s.opts.Retention))
	return nil
}

// Stop halts the cron loop; the returned context is done once a running
// job has finished.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}

// RunOnce performs one cleanup pass.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	runs, versions, err := cleanup(s.opts.BaseDir, s.now().Add(-s.opts.Retention))
	if s.opts.Reports != nil {
		for _, id := range runs {
			if _, perr := s.opts.Reports.DeleteByRunID(ctx, id); perr != nil {
				s.opts.Logger.Warn("prune reports failed", zap.String("run_id", id), zap.Error(perr))
			}
		}
	}
	n := len(runs) + versions
	s.opts.Logger.Info("cleanup finished", zap.Int("runs", len(runs)), zap.Int("versions", versions))
	return n, err
}
