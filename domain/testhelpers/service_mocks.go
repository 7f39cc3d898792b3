package testhelpers

import (
	"context"

	"challenger/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockLedgerService) GetWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockLedgerService) Credit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string, challengeID *int64) (*entities.Transaction, error) {
	args := m.Called(ctx, walletID, amount, txType, description, challengeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) Debit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string) (*entities.Transaction, error) {
	args := m.Called(ctx, walletID, amount, txType, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromWalletID, toWalletID int64, amount decimal.Decimal, description string) (*entities.TransferResult, error) {
	args := m.Called(ctx, fromWalletID, toWalletID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferResult), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) PayPrize(ctx context.Context, challenge *entities.Challenge) (*entities.Transaction, error) {
	args := m.Called(ctx, challenge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Transaction), args.Error(1)
}

func (m *MockLedgerService) Reconcile(ctx context.Context, walletID int64) (*entities.WalletReconciliation, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletReconciliation), args.Error(1)
}

func (m *MockLedgerService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}
