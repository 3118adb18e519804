package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/config"
	"github.com/mamadbah2/gigboard/internal/domain/models"
)

const (
	reportTimeout  = 2 * time.Minute
	refreshTimeout = 30 * time.Second
)

// ReportPublisher builds and delivers the weekly summary.
type ReportPublisher interface {
	PublishWeeklyReport(ctx context.Context, now time.Time) (models.WeeklyReport, error)
}

// SnapshotRefresher drops the cached booking snapshot.
type SnapshotRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	reports   ReportPublisher
	refresher SnapshotRefresher
	cfg       config.ReportingConfig
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger

	mu           sync.Mutex
	started      bool
	reportEntry  cron.EntryID
	refreshEntry cron.EntryID
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reports ReportPublisher, refresher SnapshotRefresher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("load scheduler timezone: %w", err)
		}
	}

	// Standard 5-field parser: min, hour, dom, month, dow.
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	return &Scheduler{
		cron:      c,
		reports:   reports,
		refresher: refresher,
		cfg:       cfg,
		location:  loc,
		now:       time.Now,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the cron loop. Empty schedules disable
// the corresponding job.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	if s.cfg.CronSchedule != "" && s.reports != nil {
		id, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendWeeklyReport)
		if err != nil {
			return fmt.Errorf("schedule weekly report %q: %w", s.cfg.CronSchedule, err)
		}
		s.reportEntry = id
	}
	if s.cfg.RefreshSchedule != "" && s.refresher != nil {
		id, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refreshSnapshot)
		if err != nil {
			return fmt.Errorf("schedule snapshot refresh %q: %w", s.cfg.RefreshSchedule, err)
		}
		s.refreshEntry = id
	}

	s.logger.Info("starting scheduler",
		zap.String("weekly_report", s.cfg.CronSchedule),
		zap.String("refresh", s.cfg.RefreshSchedule),
		zap.String("timezone", s.location.String()),
		zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
	s.started = true
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
	s.started = false
}

func (s *Scheduler) sendWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.reports.PublishWeeklyReport(ctx, s.now().In(s.location))
	if err != nil {
		s.logger.Error("failed to publish weekly report", zap.Error(err))
		return
	}
	s.logger.Info("weekly report sent successfully", zap.Int("gigs", report.GigCount))
}

func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("scheduled snapshot refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("booking snapshot refreshed")
}
