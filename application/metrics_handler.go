package application

import (
	"context"

	"challenger/domain/events"
	"challenger/infrastructure/observability"
)

// recordTransition counts status changes by target status
func recordTransition(ctx context.Context, event events.Event) error {
	if e, ok := event.(events.ChallengeStateChangeEvent); ok {
		observability.GetMetrics().RecordTransition(string(e.NewStatus))
	}
	return nil
}

// recordSettlement counts finalized challenges by source and outcome
func recordSettlement(ctx context.Context, event events.Event) error {
	if e, ok := event.(events.ChallengeCompletedEvent); ok {
		observability.GetMetrics().RecordSettlement(string(e.Source), string(e.Outcome))
	}
	return nil
}

// recordLedgerTransaction counts ledger rows by type
func recordLedgerTransaction(ctx context.Context, event events.Event) error {
	if e, ok := event.(events.BalanceChangeEvent); ok {
		observability.GetMetrics().RecordLedgerTransaction(string(e.TransactionType))
	}
	return nil
}
