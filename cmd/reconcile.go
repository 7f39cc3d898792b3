package cmd

import (
	"context"
	"fmt"

	"challenger/application"
	"challenger/config"
	"challenger/database"
	"challenger/infrastructure"

	log "github.com/sirupsen/logrus"
)

// Reconcile checks every wallet balance against its transaction log.
// It never publishes events and fails when any wallet disagrees.
func Reconcile(ctx context.Context) error {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	engine := application.NewChallengeEngine(uowFactory, cfg, cfg.SettlementBatchSize)

	mismatches, err := engine.ReconcileWallets(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile wallets: %w", err)
	}

	for _, m := range mismatches {
		log.WithFields(log.Fields{
			"walletID":         m.WalletID,
			"userID":           m.UserID,
			"discrepancy":      m.Discrepancy().StringFixed(2),
			"transactionCount": m.TransactionCount,
		}).Error("Wallet out of balance")
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%d wallets do not match their ledger", len(mismatches))
	}
	return nil
}
