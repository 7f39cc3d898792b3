package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWallet_CanAfford(t *testing.T) {
	w := &Wallet{Balance: decimal.NewFromInt(100)}

	assert.True(t, w.CanAfford(decimal.NewFromInt(100)))
	assert.True(t, w.CanAfford(decimal.RequireFromString("99.99")))
	assert.False(t, w.CanAfford(decimal.RequireFromString("100.01")))
}

func TestWalletReconciliation(t *testing.T) {
	r := &WalletReconciliation{
		StoredBalance: decimal.RequireFromString("150.00"),
		LedgerBalance: decimal.NewFromInt(150),
	}
	assert.True(t, r.IsBalanced())
	assert.True(t, r.Discrepancy().IsZero())

	r.LedgerBalance = decimal.NewFromInt(100)
	assert.False(t, r.IsBalanced())
	assert.Equal(t, "50", r.Discrepancy().String())
}

func TestTransactionType_Direction(t *testing.T) {
	assert.True(t, TransactionTypeChallengeWin.IsCredit())
	assert.True(t, TransactionTypeChallengeWin.IsChallengeRelated())
	assert.True(t, TransactionTypeWithdrawal.IsDebit())
	assert.False(t, TransactionTypeTransfer.IsCredit())
	assert.False(t, TransactionTypeTransfer.IsDebit())
}
