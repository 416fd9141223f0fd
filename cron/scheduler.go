package cron

import (
	"context"
	"fmt"
	"time"

	"reminderx/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	robfig "github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobFunc is one run of a periodic job. now is the tick time.
type JobFunc func(ctx context.Context, now time.Time) error

// cronLogger routes the cron library's logs into zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs the monitoring jobs on six-field (seconds) cron specs in
// server-local time. Jobs registered with a lock TTL run on one replica per tick.
type Scheduler struct {
	cron   *robfig.Cron
	locker utils.Locker
	owner  string
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// NewScheduler builds a scheduler. locker may be nil for single-instance runs.
func NewScheduler(locker utils.Locker, logger *zap.Logger) *Scheduler {
	l := cronLogger{s: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: robfig.New(
			robfig.WithSeconds(),
			robfig.WithLocation(time.Local),
			robfig.WithLogger(l),
			robfig.WithChain(robfig.Recover(l)),
		),
		locker: locker,
		owner:  uuid.New().String(),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

// Add registers fn under name. A run that overlaps a slow previous run is not
// skipped; jobs must be safe to run concurrently with themselves.
func (s *Scheduler) Add(name, spec string, lockTTL time.Duration, fn JobFunc) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, lockTTL, fn) }); err != nil {
		return fmt.Errorf("add %s job (%q): %w", name, spec, err)
	}
	s.logger.Info("job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, lockTTL time.Duration, fn JobFunc) {
	now := time.Now()

	if s.locker != nil && lockTTL > 0 {
		key := fmt.Sprintf("job:%s:%d", name, now.Truncate(time.Second).Unix())
		ok, err := s.locker.Acquire(s.ctx, key, s.owner, lockTTL)
		switch {
		case err != nil:
			// Running twice is safe; not running is not.
			s.logger.Warn("job lock unavailable, running anyway", zap.String("job", name), zap.Error(err))
		case !ok:
			s.logger.Debug("job run owned by another instance", zap.String("job", name))
			return
		}
	}

	timer := prometheus.NewTimer(utils.JobDuration.WithLabelValues(name))
	defer timer.ObserveDuration()

	if err := fn(s.ctx, now); err != nil {
		s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("location", time.Local.String()))
}

// Stop stops scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}
