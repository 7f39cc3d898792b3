package application

import (
	"context"
	"fmt"
	"time"

	"challenger/domain/entities"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// SettlementWorker runs the settlement sweep on a fixed interval.
// gocron singleton mode keeps runs from overlapping in one process and the
// advisory lock keeps instances from sweeping at the same time.
type SettlementWorker struct {
	sweeper  SettlementSweeper
	locker   AdvisoryLocker
	lockKey  int64
	interval time.Duration
	now      func() time.Time
}

// NewSettlementWorker creates a settlement worker
func NewSettlementWorker(sweeper SettlementSweeper, locker AdvisoryLocker, lockKey int64, interval time.Duration) *SettlementWorker {
	return &SettlementWorker{
		sweeper:  sweeper,
		locker:   locker,
		lockKey:  lockKey,
		interval: interval,
		now:      time.Now,
	}
}

// Start schedules the sweep, running it once immediately. The returned function stops the scheduler.
func (w *SettlementWorker) Start(ctx context.Context) (func(), error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, err := w.RunOnce(ctx); err != nil {
				log.WithError(err).Error("Settlement sweep failed")
			}
		}),
		gocron.WithName("settlement-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("failed to schedule settlement sweep: %w", err)
	}

	scheduler.Start()
	log.WithField("interval", w.interval).Info("Settlement worker started")

	return func() {
		if err := scheduler.Shutdown(); err != nil {
			log.WithError(err).Error("Failed to shut down settlement scheduler")
			return
		}
		log.Info("Settlement worker stopped")
	}, nil
}

// RunOnce sweeps once if this process can take the sweep lock
func (w *SettlementWorker) RunOnce(ctx context.Context) (*entities.SweepReport, error) {
	release, acquired, err := w.locker.TryAdvisoryLock(ctx, w.lockKey)
	if err != nil {
		return nil, fmt.Errorf("failed to take settlement lock: %w", err)
	}
	if !acquired {
		log.WithField("lockKey", w.lockKey).Info("Another instance is sweeping, skipping this run")
		return &entities.SweepReport{StartedAt: w.now(), LockNotAcquired: true}, nil
	}
	defer release()

	return w.sweeper.RunSettlementSweep(ctx, w.now())
}
