package services

import (
	"context"
	"fmt"

	"challenger/domain"
	"challenger/domain/entities"
	"challenger/domain/events"
	"challenger/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultTransactionHistoryLimit = 50

type ledgerService struct {
	walletRepo      interfaces.WalletRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewLedgerService creates a ledger service bound to the repositories of one unit of work
func NewLedgerService(
	walletRepo interfaces.WalletRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.LedgerService {
	return &ledgerService{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// GetOrCreateWallet returns the user's wallet, opening an empty one on first use
func (s *ledgerService) GetOrCreateWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet != nil {
		return wallet, nil
	}

	wallet, err = s.walletRepo.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"walletID": wallet.ID,
	}).Info("Opened wallet")

	return wallet, nil
}

// GetWallet returns the user's wallet
func (s *ledgerService) GetWallet(ctx context.Context, userID int64) (*entities.Wallet, error) {
	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.NewNotFoundError("wallet for user", userID)
	}
	return wallet, nil
}

// Credit adds amount to the wallet
func (s *ledgerService) Credit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string, challengeID *int64) (*entities.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if txType.IsDebit() {
		return nil, domain.NewValidationError("transaction type %s cannot be used for a credit", txType)
	}
	if txType.IsChallengeRelated() && challengeID == nil {
		return nil, domain.NewValidationError("transaction type %s requires a challenge", txType)
	}

	wallet, err := s.lockWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	return s.applyChange(ctx, wallet, amount, txType, description, challengeID, nil)
}

// Debit subtracts amount from the wallet. Insufficient funds is a conflict, never a clamp.
func (s *ledgerService) Debit(ctx context.Context, walletID int64, amount decimal.Decimal, txType entities.TransactionType, description string) (*entities.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if txType.IsCredit() {
		return nil, domain.NewValidationError("transaction type %s cannot be used for a debit", txType)
	}

	wallet, err := s.lockWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}

	if !wallet.CanAfford(amount) {
		return nil, insufficientBalance(wallet, amount)
	}

	return s.applyChange(ctx, wallet, amount.Neg(), txType, description, nil, nil)
}

// Transfer moves amount between two wallets, writing one transaction row per wallet
func (s *ledgerService) Transfer(ctx context.Context, fromWalletID, toWalletID int64, amount decimal.Decimal, description string) (*entities.TransferResult, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if fromWalletID == toWalletID {
		return nil, domain.NewValidationError("cannot transfer to the same wallet")
	}

	// Lock in ascending id order so two opposite transfers cannot deadlock
	firstID, secondID := fromWalletID, toWalletID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := s.lockWallet(ctx, firstID)
	if err != nil {
		return nil, err
	}
	second, err := s.lockWallet(ctx, secondID)
	if err != nil {
		return nil, err
	}

	from, to := first, second
	if from.ID != fromWalletID {
		from, to = second, first
	}

	if !from.CanAfford(amount) {
		return nil, insufficientBalance(from, amount)
	}

	outgoing, err := s.applyChange(ctx, from, amount.Neg(), entities.TransactionTypeTransfer, description, nil, &to.ID)
	if err != nil {
		return nil, err
	}
	incoming, err := s.applyChange(ctx, to, amount, entities.TransactionTypeTransfer, description, nil, &from.ID)
	if err != nil {
		return nil, err
	}

	return &entities.TransferResult{Outgoing: outgoing, Incoming: incoming}, nil
}

// Deposit credits funds from outside the platform
func (s *ledgerService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	wallet, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Credit(ctx, wallet.ID, amount, entities.TransactionTypeDeposit, description, nil)
}

// Withdraw debits funds leaving the platform
func (s *ledgerService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*entities.Transaction, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Debit(ctx, wallet.ID, amount, entities.TransactionTypeWithdrawal, description)
}

// PayPrize credits the challenge prize to the determined winner
func (s *ledgerService) PayPrize(ctx context.Context, challenge *entities.Challenge) (*entities.Transaction, error) {
	if !challenge.WinnerDetermined || challenge.WinnerID == nil {
		return nil, domain.NewStateError("challenge %d has no winner to pay", challenge.ID)
	}
	if !challenge.PrizeFrozen {
		return nil, domain.NewStateError("prize for challenge %d must be frozen before payout", challenge.ID)
	}

	existing, err := s.transactionRepo.GetPrizePayout(ctx, challenge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payout: %w", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError("prize for challenge %d was already paid", challenge.ID)
	}

	if !challenge.Prize.IsPositive() {
		log.WithField("challengeID", challenge.ID).Info("Challenge has no prize, skipping payout")
		return nil, nil
	}

	wallet, err := s.GetOrCreateWallet(ctx, *challenge.WinnerID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Prize for challenge #%d: %s", challenge.ID, challenge.Title)
	challengeID := challenge.ID
	transaction, err := s.Credit(ctx, wallet.ID, challenge.Prize, entities.TransactionTypeChallengeWin, description, &challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to credit prize: %w", err)
	}

	log.WithFields(log.Fields{
		"challengeID":   challenge.ID,
		"winnerID":      *challenge.WinnerID,
		"prize":         challenge.Prize.String(),
		"transactionID": transaction.ID,
	}).Info("Paid challenge prize")

	return transaction, nil
}

// Reconcile compares the stored balance with the sum of the wallet's transactions
func (s *ledgerService) Reconcile(ctx context.Context, walletID int64) (*entities.WalletReconciliation, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.NewNotFoundError("wallet", walletID)
	}

	sum, count, err := s.transactionRepo.SumByWallet(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum transactions: %w", err)
	}

	return &entities.WalletReconciliation{
		WalletID:         wallet.ID,
		UserID:           wallet.UserID,
		StoredBalance:    wallet.Balance,
		LedgerBalance:    sum,
		TransactionCount: count,
	}, nil
}

// GetTransactions returns the user's most recent transactions
func (s *ledgerService) GetTransactions(ctx context.Context, userID int64, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = defaultTransactionHistoryLimit
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return []*entities.Transaction{}, nil
	}

	transactions, err := s.transactionRepo.GetByWallet(ctx, wallet.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (s *ledgerService) lockWallet(ctx context.Context, walletID int64) (*entities.Wallet, error) {
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.NewNotFoundError("wallet", walletID)
	}
	return wallet, nil
}

// applyChange updates a locked wallet by a signed amount and records the matching transaction row
func (s *ledgerService) applyChange(ctx context.Context, wallet *entities.Wallet, signedAmount decimal.Decimal, txType entities.TransactionType, description string, challengeID, counterpartyWalletID *int64) (*entities.Transaction, error) {
	newBalance := wallet.Balance.Add(signedAmount)
	if newBalance.IsNegative() {
		return nil, insufficientBalance(wallet, signedAmount.Abs())
	}

	if err := s.walletRepo.UpdateBalance(ctx, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}

	transaction := &entities.Transaction{
		WalletID:             wallet.ID,
		CounterpartyWalletID: counterpartyWalletID,
		TransactionType:      txType,
		Amount:               signedAmount,
		BalanceBefore:        wallet.Balance,
		BalanceAfter:         newBalance,
		Description:          description,
		ChallengeID:          challengeID,
	}
	if err := recordTransaction(ctx, s.transactionRepo, s.eventPublisher, wallet.UserID, transaction); err != nil {
		return nil, err
	}

	wallet.Balance = newBalance
	return transaction, nil
}

// recordTransaction writes a ledger row and emits the matching balance change event.
// It is the single place ledger rows are created.
func recordTransaction(ctx context.Context, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, userID int64, transaction *entities.Transaction) error {
	if err := transactionRepo.Record(ctx, transaction); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	event := events.BalanceChangeEvent{
		UserID:          userID,
		WalletID:        transaction.WalletID,
		TransactionID:   transaction.ID,
		OldBalance:      transaction.BalanceBefore,
		NewBalance:      transaction.BalanceAfter,
		ChangeAmount:    transaction.Amount,
		TransactionType: transaction.TransactionType,
		ChallengeID:     transaction.ChallengeID,
	}
	log.WithFields(log.Fields{
		"userID":          userID,
		"walletID":        transaction.WalletID,
		"oldBalance":      event.OldBalance.String(),
		"newBalance":      event.NewBalance.String(),
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount.String(),
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.NewValidationError("amount must be positive, got %s", amount.String())
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return domain.NewValidationError("amount %s has more than two decimal places", amount.String())
	}
	return nil
}

func insufficientBalance(wallet *entities.Wallet, amount decimal.Decimal) error {
	return domain.NewConflictError("insufficient balance: wallet %d has %s, needs %s",
		wallet.ID, wallet.Balance.StringFixed(2), amount.StringFixed(2))
}
