package cmd

import (
	"context"

	"challenger/application"
	"challenger/config"

	log "github.com/sirupsen/logrus"
)

// Sweep runs a single settlement pass, for use from an external scheduler.
// Points and metrics fire here as in the engine process.
func Sweep(ctx context.Context) error {
	cfg := config.Get()

	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.close()

	cleanup, err := wireSideEffects(ctx, rt, false)
	if err != nil {
		return err
	}
	defer cleanup()

	worker := application.NewSettlementWorker(rt.engine, rt.db, cfg.SettlementLockKey, cfg.SettlementInterval)
	report, err := worker.RunOnce(ctx)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"scanned":         report.Scanned,
		"settled":         report.Settled,
		"tied":            report.Tied,
		"skipped":         report.Skipped,
		"failed":          report.Failed,
		"failedIDs":       report.FailedIDs,
		"lockNotAcquired": report.LockNotAcquired,
		"duration":        report.Duration,
	}).Info("Sweep finished")
	return nil
}
