package repository

import (
	"context"
	"errors"
	"fmt"

	"challenger/database"
	"challenger/domain/entities"
	"challenger/domain/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, wallet_id, counterparty_wallet_id, transaction_type, amount,
	balance_before, balance_after, description, challenge_id, created_at`

type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a ledger transaction repository on the pool
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx Queryable) interfaces.TransactionRepository {
	return &transactionRepository{q: tx}
}

// Record appends a ledger row. Rows are never updated or deleted.
func (r *transactionRepository) Record(ctx context.Context, transaction *entities.Transaction) error {
	query := `
		INSERT INTO transactions (
			wallet_id, counterparty_wallet_id, transaction_type, amount,
			balance_before, balance_after, description, challenge_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.WalletID,
		transaction.CounterpartyWalletID,
		transaction.TransactionType,
		transaction.Amount,
		transaction.BalanceBefore,
		transaction.BalanceAfter,
		transaction.Description,
		transaction.ChallengeID,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s transaction for wallet %d: %w",
			transaction.TransactionType, transaction.WalletID, err)
	}
	return nil
}

// GetByWallet returns the most recent transactions of a wallet, newest first
func (r *transactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for wallet %d: %w", walletID, err)
	}

	transactions, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByPos[entities.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) SumByWallet(ctx context.Context, walletID int64) (decimal.Decimal, int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM transactions WHERE wallet_id = $1`

	var sum decimal.Decimal
	var count int64
	if err := r.q.QueryRow(ctx, query, walletID).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("failed to sum transactions for wallet %d: %w", walletID, err)
	}
	return sum, count, nil
}

// GetPrizePayout returns the challenge_win row for a challenge, if any
func (r *transactionRepository) GetPrizePayout(ctx context.Context, challengeID int64) (*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE challenge_id = $1 AND transaction_type = 'challenge_win'
	`

	rows, err := r.q.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get prize payout for challenge %d: %w", challengeID, err)
	}

	transaction, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByPos[entities.Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan prize payout: %w", err)
	}
	return transaction, nil
}
