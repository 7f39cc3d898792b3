package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to new wallets
const DefaultCurrency = "USD"

// Wallet holds a user's non-negative balance
type Wallet struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	Currency  string          `db:"currency"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// CanAfford checks if the wallet can cover amount
func (w *Wallet) CanAfford(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// Transaction is an immutable ledger row. Amount is signed: credits are positive, debits negative.
type Transaction struct {
	ID                   int64           `db:"id"`
	WalletID             int64           `db:"wallet_id"`
	CounterpartyWalletID *int64          `db:"counterparty_wallet_id"`
	TransactionType      TransactionType `db:"transaction_type"`
	Amount               decimal.Decimal `db:"amount"`
	BalanceBefore        decimal.Decimal `db:"balance_before"`
	BalanceAfter         decimal.Decimal `db:"balance_after"`
	Description          string          `db:"description"`
	ChallengeID          *int64          `db:"challenge_id"`
	CreatedAt            time.Time       `db:"created_at"`
}

// TransferResult holds both legs of a wallet-to-wallet transfer
type TransferResult struct {
	Outgoing *Transaction
	Incoming *Transaction
}

// WalletReconciliation compares a wallet's stored balance with its transaction log
type WalletReconciliation struct {
	WalletID         int64
	UserID           int64
	StoredBalance    decimal.Decimal
	LedgerBalance    decimal.Decimal
	TransactionCount int64
}

// IsBalanced returns true when the stored balance equals the sum of the ledger
func (r *WalletReconciliation) IsBalanced() bool {
	return r.StoredBalance.Equal(r.LedgerBalance)
}

// Discrepancy returns stored minus ledger balance
func (r *WalletReconciliation) Discrepancy() decimal.Decimal {
	return r.StoredBalance.Sub(r.LedgerBalance)
}
