package interfaces

import (
	"context"
	"time"

	"challenger/domain/entities"

	"github.com/shopspring/decimal"
)

// ChallengeRepository persists challenges
type ChallengeRepository interface {
	Create(ctx context.Context, challenge *entities.Challenge) error
	GetByID(ctx context.Context, id int64) (*entities.Challenge, error)
	// GetByIDForUpdate locks the challenge row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Challenge, error)
	Update(ctx context.Context, challenge *entities.Challenge) error
	GetDueForSettlement(ctx context.Context, now time.Time, afterID int64, limit int) ([]int64, error)
	GetByUser(ctx context.Context, userID int64, statuses []entities.ChallengeStatus) ([]*entities.Challenge, error)
}

// ParticipantRepository persists challenge memberships
type ParticipantRepository interface {
	Create(ctx context.Context, participant *entities.Participant) error
	// Upsert inserts or replaces the role and status of the (challenge, user) membership
	Upsert(ctx context.Context, participant *entities.Participant) error
	GetByID(ctx context.Context, id int64) (*entities.Participant, error)
	GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Participant, error)
	GetByChallengeAndUser(ctx context.Context, challengeID, userID int64) (*entities.Participant, error)
	Update(ctx context.Context, participant *entities.Participant) error
}

// RuleRepository persists challenge rules
type RuleRepository interface {
	CreateBatch(ctx context.Context, rules []*entities.Rule) error
	GetByID(ctx context.Context, id int64) (*entities.Rule, error)
	GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Rule, error)
}

// RuleComplianceRepository persists per-rule, per-participant judge verdicts
type RuleComplianceRepository interface {
	// Upsert keeps exactly one row per (rule, participant)
	Upsert(ctx context.Context, compliance *entities.RuleCompliance) error
	GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.RuleCompliance, error)
}

// EvidenceRepository persists submitted evidence
type EvidenceRepository interface {
	Create(ctx context.Context, evidence *entities.Evidence) error
	GetByID(ctx context.Context, id int64) (*entities.Evidence, error)
	GetByChallenge(ctx context.Context, challengeID int64) ([]*entities.Evidence, error)
	UpdateReview(ctx context.Context, evidence *entities.Evidence) error
	Delete(ctx context.Context, id int64) error
	// CountApprovedByUser returns approved evidence counts keyed by submitting user
	CountApprovedByUser(ctx context.Context, challengeID int64) (map[int64]int, error)
}

// WalletRepository persists wallet balances
type WalletRepository interface {
	// Create returns the existing wallet when the user already has one
	Create(ctx context.Context, userID int64) (*entities.Wallet, error)
	GetByID(ctx context.Context, id int64) (*entities.Wallet, error)
	GetByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)
	// GetByIDForUpdate locks the wallet row until the surrounding transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Wallet, error)
	UpdateBalance(ctx context.Context, walletID int64, newBalance decimal.Decimal) error
	List(ctx context.Context, afterID int64, limit int) ([]*entities.Wallet, error)
}

// TransactionRepository persists the immutable ledger
type TransactionRepository interface {
	Record(ctx context.Context, transaction *entities.Transaction) error
	GetByWallet(ctx context.Context, walletID int64, limit int) ([]*entities.Transaction, error)
	// SumByWallet returns the signed sum of amounts and the number of rows
	SumByWallet(ctx context.Context, walletID int64) (decimal.Decimal, int64, error)
	GetPrizePayout(ctx context.Context, challengeID int64) (*entities.Transaction, error)
}
