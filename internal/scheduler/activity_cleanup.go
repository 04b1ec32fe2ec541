package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/tasks"
)

// Enqueuer hands a task over to the background queue.
type Enqueuer interface {
	Enqueue(task backlite.Task) error
}

// ActivityCleanupScheduler periodically removes activity events past the
// retention period. With a task queue the cleanup is enqueued; without one it
// runs inline on the cron goroutine.
type ActivityCleanupScheduler struct {
	schedule      string
	retentionDays int
	queue         Enqueuer
	cleaner       tasks.ActivityEventCleaner
	log           logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// isCleaning is kept outside mu so a running job never waits on Stop.
	isCleaning atomic.Bool
}

// NewActivityCleanupScheduler creates a new scheduler instance. queue may be nil.
func NewActivityCleanupScheduler(cfg config.Activity, queue Enqueuer, cleaner tasks.ActivityEventCleaner, log logrus.FieldLogger) *ActivityCleanupScheduler {
	return &ActivityCleanupScheduler{
		schedule:      cfg.CleanupSchedule,
		retentionDays: cfg.RetentionDays,
		queue:         queue,
		cleaner:       cleaner,
		log:           log.WithField("component", "scheduler"),
		cron:          cron.New(cron.WithParser(config.CronParser())),
	}
}

// Start begins the scheduler. It stops by itself when ctx is cancelled.
func (s *ActivityCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := config.ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunNow(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule activity cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	s.log.WithFields(logrus.Fields{
		"schedule":       s.schedule,
		"retention_days": s.retentionDays,
		"next_run":       s.cron.Entry(entryID).Next,
	}).Info("Activity cleanup scheduler started")

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running cleanup.
func (s *ActivityCleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}

	done := s.cron.Stop()
	s.cron.Remove(s.entryID)
	s.isRunning = false
	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.mu.Unlock()

	<-done.Done()
	s.log.Info("Activity cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *ActivityCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *ActivityCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}

// RunNow triggers one cleanup. Overlapping runs are skipped.
func (s *ActivityCleanupScheduler) RunNow(ctx context.Context) {
	if !s.isCleaning.CompareAndSwap(false, true) {
		s.log.Info("Activity cleanup skipped (already running)")
		return
	}
	defer s.isCleaning.Store(false)

	task := tasks.CleanupActivityEventsTask{RetentionDays: s.retentionDays}

	if s.queue != nil {
		if err := s.queue.Enqueue(task); err != nil {
			s.log.WithError(err).Error("Failed to enqueue activity cleanup")
			return
		}
		s.log.Debug("Activity cleanup enqueued")
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, task.Config().Timeout)
	defer cancel()

	if err := tasks.CleanupActivityEventsProcessor(s.cleaner, s.log)(runCtx, task); err != nil {
		s.log.WithError(err).Error("Activity cleanup failed")
	}
}
